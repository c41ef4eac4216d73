package stress

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"time"

	vmetrics "github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdUtil "github.com/ludaludaed/atomic-shared-pointer/cmd/util"
	"github.com/ludaludaed/atomic-shared-pointer/lib/hazptr"
	"github.com/ludaludaed/atomic-shared-pointer/lib/structures"
)

var (
	// StressCmd groups the stress subcommands, one per container.
	StressCmd = &cobra.Command{
		Use:   "stress",
		Short: "Run a randomized concurrent stress against a lock-free container",
		Long:  `Run a randomized mix of concurrent pushes and pops against a lock-free container built on atomic shared pointers, verify that no value was lost or duplicated, and report throughput and latency.`,
	}

	stackCmd = &cobra.Command{
		Use:     "stack",
		Short:   "Stress the lock-free Treiber stack",
		PreRunE: bindConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("stack", func() container {
				return &structures.Stack[int]{}
			})
		},
	}

	queueCmd = &cobra.Command{
		Use:     "queue",
		Short:   "Stress the lock-free Michael-Scott queue",
		PreRunE: bindConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("queue", func() container {
				return structures.NewQueue[int]()
			})
		},
	}
)

func init() {
	cobra.OnInitialize(cmdUtil.InitConfig)

	key := "goroutines"
	StressCmd.PersistentFlags().Int(key, runtime.NumCPU(), cmdUtil.WrapString("Number of worker goroutines. Each worker performs ops/goroutines operations"))

	key = "ops"
	StressCmd.PersistentFlags().Int(key, 1_000_000, cmdUtil.WrapString("Total number of operations, split evenly across the workers"))

	key = "seed"
	StressCmd.PersistentFlags().Int64(key, 1, cmdUtil.WrapString("Base seed for the per-worker random operation mix"))

	key = "metrics"
	StressCmd.PersistentFlags().Bool(key, false, cmdUtil.WrapString("Print the reclamation metrics in Prometheus format after the run"))

	StressCmd.AddCommand(stackCmd)
	StressCmd.AddCommand(queueCmd)
}

func bindConfig(cmd *cobra.Command, _ []string) error {
	return cmdUtil.BindFlags(cmd)
}

// container is the surface the stress drives.
type container interface {
	Push(int)
	Pop() (int, bool)
}

func run(name string, factory func() container) error {
	var (
		goroutines = viper.GetInt("goroutines")
		ops        = viper.GetInt("ops")
		seed       = viper.GetInt64("seed")
		dump       = viper.GetBool("metrics")
	)
	if goroutines < 1 {
		return fmt.Errorf("invalid goroutine count %d", goroutines)
	}
	if ops < goroutines {
		return fmt.Errorf("ops (%d) must be at least the goroutine count (%d)", ops, goroutines)
	}

	fmt.Printf("stress %s: %d ops across %d goroutines (seed %d)\n", name, ops, goroutines, seed)

	var (
		c       = factory()
		balance = xsync.NewMapOf[int, int]()
		pushes  = xsync.NewCounter()
		pops    = xsync.NewCounter()

		registry  = gometrics.NewRegistry()
		pushTimer = gometrics.GetOrRegisterTimer("push", registry)
		popTimer  = gometrics.GetOrRegisterTimer("pop", registry)
	)

	record := func(value, delta int) {
		balance.Compute(value, func(old int, _ bool) (int, bool) {
			return old + delta, false
		})
	}

	start := time.Now()
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + int64(worker)))
			for i := 0; i < ops/goroutines; i++ {
				if rng.Intn(2) == 0 {
					value := rng.Intn(1 << 20)
					opStart := time.Now()
					c.Push(value)
					pushTimer.UpdateSince(opStart)
					record(value, 1)
					pushes.Inc()
				} else {
					opStart := time.Now()
					value, ok := c.Pop()
					popTimer.UpdateSince(opStart)
					if ok {
						record(value, -1)
						pops.Inc()
					}
				}
			}
		}(g)
	}
	wg.Wait()
	elapsed := time.Since(start)

	// Drain the leftovers and check that the multiset balances out
	drained := 0
	for {
		value, ok := c.Pop()
		if !ok {
			break
		}
		record(value, -1)
		drained++
	}
	corrupt := 0
	balance.Range(func(value, count int) bool {
		if count != 0 {
			corrupt++
			fmt.Fprintf(os.Stderr, "value %d: push/pop balance %d, want 0\n", value, count)
		}
		return true
	})
	hazptr.Global().Drain()

	fmt.Printf("elapsed          %v (%.0f ops/s)\n", elapsed.Round(time.Millisecond), float64(ops)/elapsed.Seconds())
	fmt.Printf("pushes           %d\n", pushes.Value())
	fmt.Printf("pops             %d (+%d drained)\n", pops.Value(), drained)
	fmt.Printf("push latency     p50 %v, p99 %v\n", time.Duration(pushTimer.Percentile(0.50)), time.Duration(pushTimer.Percentile(0.99)))
	fmt.Printf("pop latency      p50 %v, p99 %v\n", time.Duration(popTimer.Percentile(0.50)), time.Duration(popTimer.Percentile(0.99)))

	if dump {
		vmetrics.WritePrometheus(os.Stdout, false)
	}
	if corrupt != 0 {
		return fmt.Errorf("multiset violated for %d values", corrupt)
	}
	return nil
}
