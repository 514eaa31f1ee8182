package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/bitleak/lmstfy/client"

	"oip/dprate/internal/bootstrap"
	"oip/dprate/internal/business/shipping"
	"oip/dprate/internal/domains"
	"oip/dprate/internal/domains/common/deps"
	"oip/dprate/pkg/config"
	"oip/dprate/pkg/errorutil"
	"oip/dprate/pkg/logger"
	"oip/dprate/pkg/model"
)

var (
	configPath   = flag.String("config", "./config/config.yaml", "配置文件路径")
	testcasePath = flag.String("testcase", "./internal/domains/handlers/shipping/calculate/testcase/calculate.json", "测试用例路径")
	direct       = flag.Bool("direct", false, "直接调用 RateService（不经过 Job 处理链路）")
)

// TestCase 测试用例结构
type TestCase struct {
	Name         string                  `json:"name"`
	Query        model.ShippingRateQuery `json:"query"`
	ExpectTotal  *float64                `json:"expect_total,omitempty"`
	ExpectReason string                  `json:"expect_reason,omitempty"`
}

// printCallback 把回调打印到终端，代替 lmstfy 回调队列
type printCallback struct {
	last *model.ShippingRateCallback
}

func (p *printCallback) Send(_ context.Context, cb *model.ShippingRateCallback) error {
	p.last = cb
	data, _ := json.Marshal(cb)
	fmt.Printf("  Callback: %s\n", data)
	return nil
}

func main() {
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("  FastTest - DPRATE Worker 快速测试工具")
	fmt.Println("========================================")

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Invalid config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Config loaded: %s\n", cfg.App.Name)

	// 2. 加载测试用例
	testCases, err := loadTestCases(*testcasePath)
	if err != nil {
		fmt.Printf("❌ Failed to load test cases: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Loaded %d test cases from %s\n", len(testCases), *testcasePath)

	// 3. 初始化费率服务
	log, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		fmt.Printf("❌ Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	rates, err := bootstrap.NewRateStack(context.Background(), cfg, log)
	if err != nil {
		fmt.Printf("❌ Failed to create rate service: %v\n", err)
		os.Exit(1)
	}
	defer rates.Close()
	fmt.Println("✅ Rate service initialized")

	// 4. 执行测试用例
	fmt.Println("\n========================================")
	fmt.Println("  Running Test Cases")
	fmt.Println("========================================")

	successCount := 0
	failureCount := 0

	for i, tc := range testCases {
		fmt.Printf("\n[Test %d/%d] %s: country=%s, line=%s, zone=%s, weight=%v %s\n",
			i+1, len(testCases), tc.Name, tc.Query.Country, tc.Query.ShippingLine, tc.Query.Zone,
			tc.Query.Weight, tc.Query.WeightUnit)
		fmt.Println("----------------------------------------")

		startTime := time.Now()

		if *direct {
			err = runTestCaseDirect(rates.Service, tc)
		} else {
			err = runTestCaseJob(rates.Service, log, tc, i)
		}

		duration := time.Since(startTime)

		if err != nil {
			fmt.Printf("❌ FAILED: %v\n", err)
			fmt.Printf("⏱️  Duration: %v\n", duration)
			failureCount++
		} else {
			fmt.Printf("✅ PASSED\n")
			fmt.Printf("⏱️  Duration: %v\n", duration)
			successCount++
		}
	}

	// 5. 输出测试汇总
	fmt.Println("\n========================================")
	fmt.Println("  Test Summary")
	fmt.Println("========================================")
	fmt.Printf("Total: %d\n", len(testCases))
	fmt.Printf("Passed: %d ✅\n", successCount)
	fmt.Printf("Failed: %d ❌\n", failureCount)

	if failureCount > 0 {
		os.Exit(1)
	}
}

// loadTestCases 从 JSON 文件加载测试用例
func loadTestCases(path string) ([]TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read testcase file: %w", err)
	}

	var testCases []TestCase
	if err := json.Unmarshal(data, &testCases); err != nil {
		return nil, fmt.Errorf("failed to unmarshal testcase: %w", err)
	}

	return testCases, nil
}

// runTestCaseDirect 直接调用 RateService
func runTestCaseDirect(svc *shipping.RateService, tc TestCase) error {
	weight, missing, err := shipping.ParseWeightInput(tc.Query.Weight)
	if err == nil {
		var result *shipping.CalculationResult
		result, err = svc.Calculate(context.Background(), &shipping.CalculateRequest{
			Country:       tc.Query.Country,
			ShippingLine:  tc.Query.ShippingLine,
			Zone:          tc.Query.Zone,
			Weight:        weight,
			WeightUnit:    shipping.WeightUnit(tc.Query.WeightUnit),
			WeightMissing: missing,
		})
		if err == nil {
			fmt.Printf("  Quote: line=%s, zone=%s, shipping=%.2f, total=%.2f, delivery=%s\n",
				result.ShippingLine, result.Zone, result.ShippingCost, result.TotalCost, result.DeliveryDays)
			return check(tc, &result.TotalCost, "")
		}
	}
	fmt.Printf("  Error: %v\n", err)
	return check(tc, nil, string(errorutil.ReasonOf(err)))
}

// runTestCaseJob 构造 Job 消息，经 GetProcess 完整处理链路
func runTestCaseJob(svc *shipping.RateService, log logger.Logger, tc TestCase, idx int) error {
	cb := &printCallback{}
	proc := domains.GetProcess(&deps.Deps{Rates: svc, Callback: cb, Logger: log})

	query := tc.Query
	data, err := json.Marshal(model.ShippingRateJob{Payload: model.ShippingRateJobPayload{Data: model.ShippingRateJobData{
		ActionType: model.ActionShippingRateCalculate,
		ID:         fmt.Sprintf("fasttest-%d", idx),
		Data:       &query,
	}}})
	if err != nil {
		return err
	}

	resp := proc(context.Background(), &client.Job{ID: fmt.Sprintf("fasttest-job-%d", idx), Data: data})
	fmt.Printf("  Job action: %s\n", resp.Action)

	if cb.last == nil {
		return fmt.Errorf("no callback sent (action=%s)", resp.Action)
	}
	if cb.last.Error != nil {
		return check(tc, nil, cb.last.Error.Reason)
	}
	return check(tc, &cb.last.Result.TotalCost, "")
}

// check 对比期望结果
func check(tc TestCase, total *float64, reason string) error {
	if tc.ExpectReason != "" {
		if reason != tc.ExpectReason {
			return fmt.Errorf("expected reason %s, got %q", tc.ExpectReason, reason)
		}
		return nil
	}
	if reason != "" {
		return fmt.Errorf("unexpected error: %s", reason)
	}
	if tc.ExpectTotal == nil {
		return nil
	}
	if total == nil {
		return fmt.Errorf("expected total %.2f, got no quote", *tc.ExpectTotal)
	}
	if math.Abs(*total-*tc.ExpectTotal) > 0.001 {
		return fmt.Errorf("expected total %.2f, got %.2f", *tc.ExpectTotal, *total)
	}
	return nil
}
