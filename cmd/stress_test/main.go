package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

const (
	defaultMySQLDSN = "root:root@tcp(localhost:3306)/storefront?parseTime=true"
	redisAddr       = "localhost:6379"
	initialStock    = 20
	totalBuyers     = 50
	queueSize       = 100
)

// Every buyer holds one unit of the same product in their cart and checks out
// at once. Exactly initialStock checkouts must succeed.
func main() {
	ctx := context.Background()

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = defaultMySQLDSN
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("failed to open mysql: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(totalBuyers)
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	if err := storage.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)

	run := uuid.NewString()[:8]
	productID, err := mysqlAdapter.CreateProduct(ctx, domain.Product{
		CategoryID:    1,
		Name:          "Stress Tee " + run,
		Price:         decimal.RequireFromString("19.99"),
		StockQuantity: initialStock,
	})
	if err != nil {
		log.Fatalf("failed to create product: %v", err)
	}
	defer mysqlAdapter.DeleteProduct(ctx, productID)

	buyers := make([]int64, 0, totalBuyers)
	for i := 0; i < totalBuyers; i++ {
		name := fmt.Sprintf("stress-%s-%d", run, i)
		userID, err := mysqlAdapter.CreateUser(ctx, domain.User{
			Username:     name,
			Email:        name + "@example.com",
			PasswordHash: "x",
			Role:         domain.RoleCustomer,
		})
		if err != nil {
			log.Fatalf("failed to create user: %v", err)
		}
		if _, err := mysqlAdapter.AddOrMerge(ctx, userID, productID, 1); err != nil {
			log.Fatalf("failed to fill cart: %v", err)
		}
		buyers = append(buyers, userID)
	}

	orderService := service.NewOrderService(mysqlAdapter, mysqlAdapter, redisAdapter, zap.NewNop(), queueSize)
	defer orderService.Close()

	// Drain the event queue in background
	go func() {
		for range orderService.Events() {
		}
	}()

	var successCount, stockCount, otherCount atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for _, userID := range buyers {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()

			buyerCtx := domain.WithIdentity(ctx, domain.Identity{UserID: userID, Role: domain.RoleCustomer})
			_, err := orderService.PlaceOrder(buyerCtx, domain.CheckoutRequest{
				Shipping: domain.ShippingInfo{
					Address: "1 Load St",
					City:    "Testville",
					State:   "CA",
					ZipCode: "90001",
				},
				PaymentMethod:  domain.PaymentCreditCard,
				IdempotencyKey: uuid.NewString(),
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				stockCount.Add(1)
			default:
				otherCount.Add(1)
				log.Printf("buyer %d: unexpected error: %v", userID, err)
			}
		}(userID)
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	soldOut := stockCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Buyers:           %d\n", totalBuyers)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Out of stock:     %d\n", soldOut)
	fmt.Printf("Other errors:     %d\n", otherCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == initialStock && soldOut == totalBuyers-initialStock {
		fmt.Printf("PASS: exactly %d checkouts succeeded, %d ran out of stock\n", initialStock, soldOut)
	} else {
		fmt.Printf("FAIL: expected %d success/%d out of stock, got %d/%d\n",
			initialStock, totalBuyers-initialStock, success, soldOut)
	}

	p, err := mysqlAdapter.GetProduct(ctx, productID)
	if err != nil {
		log.Fatalf("failed to read final stock: %v", err)
	}
	fmt.Printf("Final Stock: %d\n", p.StockQuantity)
	if p.StockQuantity == 0 {
		fmt.Println("PASS: stock depleted to 0")
	} else {
		fmt.Printf("FAIL: expected stock 0, got %d\n", p.StockQuantity)
	}
}
