package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/giygas/empirical-rx/brands"
	"github.com/giygas/empirical-rx/catalog"
	"github.com/giygas/empirical-rx/catalog/entities"
	"github.com/giygas/empirical-rx/dosage"
	"github.com/giygas/empirical-rx/export"
	"github.com/giygas/empirical-rx/validation"
	"github.com/spf13/cobra"
)

var errNoDose = errors.New("no result: check the mode and that weight, dose (and height for bsa) are positive numbers")

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "List conditions whose name starts with query; no query lists all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			if err := validation.NewDataValidator().ValidateQuery(query); err != nil {
				return err
			}

			a, err := bootstrap(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			for _, entry := range a.store.LookupByPrefix(query) {
				fmt.Fprintln(out, entry.Name)
			}
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print one condition with its brand links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			record, ok := a.store.Get(args[0])
			if !ok {
				return fmt.Errorf("condition %q not found", catalog.Normalize(args[0]))
			}

			writeRecord(cmd.OutOrStdout(), a.cfg.DrugSearchURL, entities.Entry{Name: catalog.Normalize(args[0]), Record: record})
			return nil
		},
	}
}

func writeRecord(w io.Writer, searchURL string, entry entities.Entry) {
	fmt.Fprintln(w, entry.Name)
	fmt.Fprintf(w, "First-line: %s\n", entry.Record.FirstLine)

	sections := []struct {
		title string
		items []string
	}{
		{"Management", entry.Record.Management},
		{"Symptoms", entry.Record.Symptoms},
		{"Labs", entry.Record.Labs},
	}
	for _, section := range sections {
		if len(section.items) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", section.title)
		for _, item := range section.items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}

	var links []brands.Link
	links = append(links, brands.Links(searchURL, entry.Record.FirstLine)...)
	for _, item := range entry.Record.Management {
		links = append(links, brands.Links(searchURL, item)...)
	}
	if len(links) > 0 {
		fmt.Fprintln(w, "Brands:")
		for _, link := range links {
			fmt.Fprintf(w, "  %s  %s\n", link.Brand, link.URL)
		}
	}
}

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a condition to the catalog",
		Long: "Add a condition to the catalog. Management, symptoms and labs take one item per line;\n" +
			`a literal \n inside a flag value also starts a new item.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			firstLine, _ := cmd.Flags().GetString("first-line")
			management, _ := cmd.Flags().GetString("management")
			symptoms, _ := cmd.Flags().GetString("symptoms")
			labs, _ := cmd.Flags().GetString("labs")

			name, input := catalog.ParseForm(
				name,
				firstLine,
				unescapeNewlines(management),
				unescapeNewlines(symptoms),
				unescapeNewlines(labs),
			)
			if err := validation.NewDataValidator().ValidateRecordInput(name, input); err != nil {
				return err
			}

			a, err := bootstrap(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Insert(cmd.Context(), name, input); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d conditions)\n", catalog.Normalize(name), a.store.Len())
			return nil
		},
	}

	cmd.Flags().String("name", "", "Disease name")
	cmd.Flags().String("first-line", "", "First-line treatment")
	cmd.Flags().String("management", "", "Management items, one per line")
	cmd.Flags().String("symptoms", "", "Symptoms, one per line")
	cmd.Flags().String("labs", "", "Labs, one per line")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("first-line")

	return cmd
}

func unescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

func doseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dose",
		Short: "Scale a reference adult dose by weight or body surface area",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, _ := cmd.Flags().GetString("mode")
			weight, _ := cmd.Flags().GetString("weight")
			height, _ := cmd.Flags().GetString("height")
			adultDose, _ := cmd.Flags().GetString("adult-dose")

			if _, err := dosage.ParseMode(mode); err != nil {
				return err
			}

			req, ok := dosage.ParseRequest(mode, weight, height, adultDose)
			if !ok {
				return errNoDose
			}
			result, ok := dosage.Compute(req)
			if !ok {
				return errNoDose
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s mg (%s)\n", result.String(), result.Mode)
			if result.Mode == dosage.PediatricBSA {
				fmt.Fprintf(out, "BSA %.2f m²\n", result.BSA)
			}
			return nil
		},
	}

	cmd.Flags().String("mode", "adult", "adult, pediatric (weight ratio) or bsa")
	cmd.Flags().String("weight", "", "Patient weight in kg")
	cmd.Flags().String("height", "", "Patient height in cm (bsa only)")
	cmd.Flags().String("adult-dose", "", "Reference adult dose in mg")

	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			var write func(io.Writer, []entities.Entry) error
			switch strings.ToLower(format) {
			case "csv":
				write = export.WriteCSV
			case "json":
				write = export.WriteJSON
			default:
				return fmt.Errorf("unknown export format %q: use csv or json", format)
			}

			a, err := bootstrap(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if output == "" || output == "-" {
				return write(cmd.OutOrStdout(), a.store.Entries())
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := write(f, a.store.Entries()); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().String("format", "csv", "csv or json")
	cmd.Flags().StringP("output", "o", "", "Output file; stdout when empty")

	return cmd
}
