package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/solardash/internal/database"
	"github.com/jgoulah/solardash/internal/format"
)

var (
	historyPeriod string
	historyLimit  int
	historyEV     bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded dashboard snapshots",
	Long:  `Displays the summary metrics (or EV charging statuses) recorded while history is enabled.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyPeriod, "period", "", "Filter by period (today, week, month, all)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of records to show (0 = all)")
	historyCmd.Flags().BoolVar(&historyEV, "ev", false, "Show EV charging history instead of metrics")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if historyEV {
		return listEVHistory(historyLimit, db)
	}

	records, err := db.ListMetrics(historyPeriod, historyLimit)
	if err != nil {
		return fmt.Errorf("listing metrics: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No snapshots recorded")
		return nil
	}

	fmt.Println("----------------------------------------------------------------------------")
	fmt.Printf("%-16s  %-7s  %12s  %12s  %9s  %9s\n", "Recorded", "Period", "Solar", "Consumption", "Savings", "CO2")
	fmt.Println("----------------------------------------------------------------------------")
	for _, rec := range records {
		m := rec.Metrics
		fmt.Printf("%-16s  %-7s  %12s  %12s  %9s  %9s\n",
			humanize.Time(rec.RecordedAt), rec.Period,
			format.Energy(m.SolarProduction), format.Energy(m.TotalConsumption),
			format.Currency(m.CostSavings), format.Mass(m.CO2Offset))
	}
	fmt.Println("----------------------------------------------------------------------------")
	fmt.Printf("%s records\n", humanize.Comma(int64(len(records))))

	return nil
}

func listEVHistory(limit int, db *database.DB) error {
	records, err := db.ListEV(limit)
	if err != nil {
		return fmt.Errorf("listing ev status: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No EV statuses recorded")
		return nil
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("%-16s  %8s  %6s  %10s  %10s\n", "Recorded", "Power", "Charge", "Remaining", "Cost")
	fmt.Println("------------------------------------------------------------")
	for _, rec := range records {
		ev := rec.EV
		fmt.Printf("%-16s  %8s  %6s  %10s  %10s\n",
			humanize.Time(rec.RecordedAt),
			format.Power(ev.ChargingPowerKW),
			format.PercentLabel(format.Percent(ev.Percentage)),
			fmt.Sprintf("%d mins", format.Minutes(ev.TimeToCompleteHours)),
			format.Currency(ev.CostEstimate))
	}
	return nil
}
