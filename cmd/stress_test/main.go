package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/almazuulu/inventory-mgmt-tool/internal/adapter/storage"
	"github.com/almazuulu/inventory-mgmt-tool/internal/core/domain"
	"github.com/almazuulu/inventory-mgmt-tool/internal/core/service"
)

const (
	locationID    = "STRESS_DOCK"
	itemID        = "WIDGET"
	workerCount   = 8
	incrementsPer = 25
)

func main() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "warehouse-stress-*")
	if err != nil {
		log.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)
	statePath := filepath.Join(dir, "warehouse_state.json")

	// Every worker gets its own store and locker, contending on the
	// same files the way independent processes would.
	newEngine := func() *service.Engine {
		store := storage.NewFileStore(statePath)
		locker := storage.NewFlockLocker(statePath+storage.LockSuffix, 0)
		return service.NewEngine(store, locker, nil)
	}

	if _, err := newEngine().Execute(ctx, domain.Operation{Kind: domain.OpRegisterLocation, Location: locationID}); err != nil {
		log.Fatalf("failed to register location: %v", err)
	}

	// Counters
	var successCount atomic.Int32
	var failCount atomic.Int32

	// Spawn concurrent workers
	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			engine := newEngine()
			for i := 0; i < incrementsPer; i++ {
				_, err := engine.Execute(ctx, domain.Operation{
					Kind:     domain.OpIncrement,
					Location: locationID,
					Item:     itemID,
					Quantity: 1,
				})
				if err == nil {
					successCount.Add(1)
				} else {
					failCount.Add(1)
				}
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	res, err := newEngine().Execute(ctx, domain.Operation{Kind: domain.OpObserve, Location: locationID})
	if err != nil {
		log.Fatalf("failed to observe final state: %v", err)
	}
	final := 0
	for _, item := range res.Items {
		if item.Item == itemID {
			final = item.Quantity
		}
	}

	// Results
	total := workerCount * incrementsPer
	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Workers:          %d\n", workerCount)
	fmt.Printf("Increments each:  %d\n", incrementsPer)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	if success == int32(total) && fail == 0 {
		fmt.Printf("PASS: All %d increments succeeded\n", total)
	} else {
		fmt.Printf("FAIL: Expected %d successes, got %d (%d failed)\n", total, success, fail)
		os.Exit(1)
	}

	if final == total {
		fmt.Printf("PASS: Final quantity is exactly %d\n", final)
	} else {
		fmt.Printf("FAIL: Expected final quantity %d, got %d\n", total, final)
		os.Exit(1)
	}
}
