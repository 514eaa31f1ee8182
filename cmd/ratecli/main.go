package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"oip/dprate/internal/business/shipping"
	"oip/dprate/pkg/errorutil"
	"oip/dprate/pkg/infra/sheets"
	"oip/dprate/pkg/logger"
)

var (
	workbookPath string
	pretty       bool
	verbose      bool

	country      string
	shippingLine string
	zone         string
	weight       string
	weightUnit   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ratecli",
		Short: "Query shipping rates from a local rate workbook",
		Long: `ratecli loads a shipping rate workbook (.xlsx, one tab per sheet)
and runs the same parse/merge/resolve pipeline as the API server.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&workbookPath, "workbook", "w", "", "Rate workbook path (.xlsx)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline details to stderr")
	_ = rootCmd.MarkPersistentFlagRequired("workbook")

	countriesCmd := &cobra.Command{
		Use:   "countries",
		Short: "List countries with their zones and shipping lines",
		Args:  cobra.NoArgs,
		RunE:  runCountries,
	}

	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate the shipping cost for a parcel",
		Args:  cobra.NoArgs,
		RunE:  runCalc,
	}
	calcCmd.Flags().StringVarP(&country, "country", "c", "", "Destination country")
	calcCmd.Flags().StringVarP(&shippingLine, "line", "l", "", "Shipping line key or name")
	calcCmd.Flags().StringVarP(&zone, "zone", "z", "", "Zone (optional)")
	calcCmd.Flags().StringVar(&weight, "weight", "", "Parcel weight")
	calcCmd.Flags().StringVarP(&weightUnit, "unit", "u", "kg", "Weight unit: kg or lb")

	tabsCmd := &cobra.Command{
		Use:   "tabs",
		Short: "Show how each workbook tab is classified",
		Args:  cobra.NoArgs,
		RunE:  runTabs,
	}

	rootCmd.AddCommand(countriesCmd, calcCmd, tabsCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newService() (*shipping.RateService, *sheets.WorkbookProvider, error) {
	if _, err := os.Stat(workbookPath); err != nil {
		return nil, nil, fmt.Errorf("workbook not found: %s", workbookPath)
	}
	log := logger.NewNopLogger()
	if verbose {
		l, err := logger.NewZapLogger("debug")
		if err != nil {
			return nil, nil, err
		}
		log = l
	}
	provider := sheets.NewWorkbookProvider(sheets.NewFileSource(workbookPath))
	return shipping.NewRateService(provider, nil, log, shipping.ServiceOptions{}), provider, nil
}

func runCountries(cmd *cobra.Command, args []string) error {
	svc, provider, err := newService()
	if err != nil {
		return err
	}
	defer provider.Close()

	listing, err := svc.ListCountries(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(listing)
}

func runCalc(cmd *cobra.Command, args []string) error {
	svc, provider, err := newService()
	if err != nil {
		return err
	}
	defer provider.Close()

	w, missing, err := shipping.ParseWeightInput(weight)
	if err != nil {
		return err
	}
	result, err := svc.Calculate(cmd.Context(), &shipping.CalculateRequest{
		Country:       country,
		ShippingLine:  shippingLine,
		Zone:          zone,
		Weight:        w,
		WeightUnit:    shipping.WeightUnit(weightUnit),
		WeightMissing: missing,
	})
	if err != nil {
		e := errorutil.Wrap(err)
		_ = printJSON(e)
		return fmt.Errorf("%s: %s", e.Reason, e.Message)
	}
	return printJSON(result)
}

type tabSummary struct {
	Name            string `json:"name"`
	Excluded        bool   `json:"excluded"`
	US              bool   `json:"us"`
	ShippingLineKey string `json:"shipping_line_key,omitempty"`
	DisplayName     string `json:"display_name,omitempty"`
	Rows            int    `json:"rows"`
	Countries       int    `json:"countries"`
}

func runTabs(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(workbookPath); err != nil {
		return fmt.Errorf("workbook not found: %s", workbookPath)
	}
	provider := sheets.NewWorkbookProvider(sheets.NewFileSource(workbookPath))
	defer provider.Close()

	ctx := cmd.Context()
	names, err := provider.ListTabNames(ctx)
	if err != nil {
		return err
	}

	out := make([]tabSummary, 0, len(names))
	for _, name := range names {
		class := shipping.ClassifyTab(name)
		s := tabSummary{
			Name:            name,
			Excluded:        class.Excluded,
			US:              shipping.IsUSTab(name),
			ShippingLineKey: class.ShippingLineKey,
			DisplayName:     class.DisplayName,
		}
		if !class.Excluded {
			rows, err := provider.FetchTabRows(ctx, name)
			if err != nil {
				return err
			}
			s.Rows = len(rows)
			s.Countries = len(shipping.ParseTab(rows, name).Countries)
		}
		out = append(out, s)
	}
	return printJSON(out)
}

func printJSON(v interface{}) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
