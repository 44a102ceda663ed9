package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/vinoventas/dashboard/internal/analytics"
	"github.com/vinoventas/dashboard/internal/assistant"
	"github.com/vinoventas/dashboard/internal/dataset"
	"github.com/vinoventas/dashboard/internal/domain"
	"github.com/vinoventas/dashboard/internal/export"
	"github.com/vinoventas/dashboard/internal/logger"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "summary":
		runSummary(log)
	case "report":
		runReport(log)
	case "export":
		runExport(log)
	case "chat":
		runChat(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Vinoventas Dashboard CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  summary   Print the KPI summary for a filtered period")
	fmt.Println("  report    Print the sales rankings for a filtered period")
	fmt.Println("  export    Write the Excel report for a filtered period")
	fmt.Println("  chat      Ask the sales assistant a question")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// filterFlags registers the five filter dimensions on a flag set.
func filterFlags(fs *flag.FlagSet) *domain.FilterConfig {
	f := domain.DefaultFilter()
	fs.StringVar(&f.Year, "year", f.Year, "Year to filter on")
	fs.StringVar(&f.Month, "month", f.Month, "Month to filter on (Enero..Diciembre)")
	fs.StringVar(&f.Salesperson, "salesperson", f.Salesperson, "Salesperson to filter on")
	fs.StringVar(&f.Brand, "brand", f.Brand, "Brand to filter on")
	fs.StringVar(&f.Product, "product", f.Product, "Product to filter on")
	return &f
}

func loadFiltered(log zerolog.Logger, dataPath string, f domain.FilterConfig) []domain.SaleRecord {
	records, err := dataset.LoadFile(dataPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}
	if !dataset.ExtractVocabulary(records).ValidFilter(f) {
		log.Fatal().Msg("Filter value not present in the dataset")
	}
	return analytics.ApplyFilters(records, f)
}

func runSummary(log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	dataPath := fs.String("data", "ventas_data.json", "Path to the sales dataset")
	compare := fs.String("compare", "", "Comparison mode: periodo-anterior or mismo-periodo-año-anterior")
	f := filterFlags(fs)
	fs.Parse(os.Args[2:])

	records, err := dataset.LoadFile(*dataPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}
	if !dataset.ExtractVocabulary(records).ValidFilter(*f) {
		log.Fatal().Msg("Filter value not present in the dataset")
	}

	filtered := analytics.ApplyFilters(records, *f)
	s := analytics.Summarize(filtered)

	fmt.Println("\n=== Resumen de Ventas ===")
	if active := f.Active(); len(active) > 0 {
		fmt.Printf("Filtros:          %v\n", active)
	}
	fmt.Printf("Ventas totales:   $%s\n", s.TotalSales.StringFixed(2))
	fmt.Printf("Unidades:         %s\n", s.TotalUnits)
	fmt.Printf("Transacciones:    %d\n", s.Transactions)
	fmt.Printf("Clientes únicos:  %d\n", s.UniqueCustomers)
	fmt.Printf("Ticket promedio:  $%s\n", s.AverageTicket.StringFixed(2))

	if *compare != "" {
		cfg := analytics.Activate(*f, domain.ComparisonMode(*compare))
		prior := analytics.Summarize(analytics.ApplyFilters(records, *cfg.ComparisonFilter))
		fmt.Printf("\n%s\n", analytics.ComparisonLabel(cfg, *f))
		fmt.Printf("Ventas anteriores: $%s\n", prior.TotalSales.StringFixed(2))
		if change := analytics.ComputeChange(s.TotalSales, prior.TotalSales); change != nil {
			fmt.Printf("Cambio:            $%s (%s%%)\n", change.Delta.StringFixed(2), change.Percentage.StringFixed(1))
		}
	}
	fmt.Println()
}

func runReport(log zerolog.Logger) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	dataPath := fs.String("data", "ventas_data.json", "Path to the sales dataset")
	f := filterFlags(fs)
	fs.Parse(os.Args[2:])

	filtered := loadFiltered(log, *dataPath, *f)

	fmt.Println("\n=== Top 10 Productos ===")
	for i, p := range analytics.TopProducts(filtered, 10) {
		fmt.Printf("%2d. %-40s $%s\n", i+1, p.Name, p.Total.StringFixed(2))
	}

	fmt.Println("\n=== Vendedores ===")
	for i, s := range analytics.SalespersonRanking(filtered) {
		fmt.Printf("%2d. %-25s $%s (%d ventas)\n", i+1, s.Name, s.Total.StringFixed(2), s.Transactions)
	}

	fmt.Println("\n=== Top 10 Marcas ===")
	for i, m := range analytics.TopBrands(filtered, 10) {
		fmt.Printf("%2d. %-25s $%s\n", i+1, m.Name, m.Total.StringFixed(2))
	}

	fmt.Println("\n=== Ventas por Mes ===")
	for _, m := range analytics.MonthlyTotals(filtered) {
		fmt.Printf("%-12s $%s\n", m.Month, m.Total.StringFixed(2))
	}

	fmt.Println("\n=== Top 15 Clientes ===")
	for i, c := range analytics.TopCustomers(filtered, 15) {
		fmt.Printf("%2d. %-30s (ID %d) $%s\n", i+1, c.Name, c.ID, c.Total.StringFixed(2))
	}
	fmt.Println()
}

func runExport(log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dataPath := fs.String("data", "ventas_data.json", "Path to the sales dataset")
	output := fs.String("output", "", "Output .xlsx path (defaults to reporte-<timestamp>.xlsx)")
	f := filterFlags(fs)
	fs.Parse(os.Args[2:])

	if *output == "" {
		*output = fmt.Sprintf("reporte-%s.xlsx", time.Now().Format("20060102-150405"))
	}

	filtered := loadFiltered(log, *dataPath, *f)

	if err := export.WriteFile(*output, filtered, *f); err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	fmt.Printf("Exported %d records to %s\n", len(filtered), *output)
}

func runChat(log zerolog.Logger) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	dataPath := fs.String("data", "ventas_data.json", "Path to the sales dataset")
	model := fs.String("model", assistant.DefaultModel, "Gemini model name")
	question := fs.String("question", "", "Question for the sales assistant")
	f := filterFlags(fs)
	fs.Parse(os.Args[2:])

	if *question == "" {
		log.Fatal().Msg("Error: --question is required")
	}

	records, err := dataset.LoadFile(*dataPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}
	vocab := dataset.ExtractVocabulary(records)
	if !vocab.ValidFilter(*f) {
		log.Fatal().Msg("Filter value not present in the dataset")
	}
	filtered := analytics.ApplyFilters(records, *f)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	reply, err := assistant.New(*model).Ask(ctx, filtered, vocab, *f, *question)
	if err != nil {
		log.Error().Err(err).Msg("Chat model call failed")
		fmt.Println(assistant.FallbackMessage)
		os.Exit(1)
	}

	fmt.Println(reply.Message)
	if reply.Filters != nil {
		fmt.Printf("\nFiltros sugeridos: %v\n", reply.Filters.Active())
	}
}
