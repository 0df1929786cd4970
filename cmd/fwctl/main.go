package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fairworkly/internal/domain/award"
	"fairworkly/internal/domain/payroll"
)

func main() {
	root := &cobra.Command{
		Use:   "fwctl",
		Short: "FairWorkly compliance tooling",
		Long:  "Offline tooling for the FairWorkly compliance engine.",
	}
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newValidateCmd() *cobra.Command {
	var awardName string

	cmd := &cobra.Command{
		Use:   "validate <payroll.csv>",
		Short: "Run the payroll compliance rules over a local CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			awardType, ok := award.ParseType(awardName)
			if !ok {
				return fmt.Errorf("unknown award %q: expected Retail, Hospitality or Clerks", awardName)
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			report, rowErrors, err := payroll.RunOffline(cmd.Context(), file, awardType)
			if err != nil {
				return err
			}
			if len(rowErrors) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "File contains %d invalid row(s):\n", len(rowErrors))
				for _, rowErr := range rowErrors {
					fmt.Fprintf(cmd.ErrOrStderr(), "  Row %d, %s: %s\n", rowErr.RowNumber, rowErr.Field, rowErr.Message)
				}
				return fmt.Errorf("validation aborted")
			}

			printReport(cmd, report)
			return nil
		},
	}
	cmd.Flags().StringVar(&awardName, "award", "Retail", "award the file is validated against")
	return cmd
}

func printReport(cmd *cobra.Command, report *payroll.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Status: %s\n", report.Status)
	fmt.Fprintf(out, "Pay period: %s to %s\n", report.PayPeriodStart, report.PayPeriodEnd)
	fmt.Fprintf(out, "Payslips: %d (%d passed)\n", report.Summary.TotalPayslips, report.Summary.PassedCount)
	fmt.Fprintf(out, "Issues: %d, affected employees: %d\n", report.Summary.TotalIssues, report.Summary.AffectedEmployees)
	if report.Summary.TotalUnderpayment > 0 {
		fmt.Fprintf(out, "Estimated underpayment: $%.2f\n", report.Summary.TotalUnderpayment)
	}

	for _, issue := range report.Issues {
		fmt.Fprintf(out, "\n[%s] %s - %s\n", issue.Severity, issue.Category, issue.EmployeeName)
		if issue.Warning != "" {
			fmt.Fprintf(out, "  %s\n", issue.Warning)
			continue
		}
		if issue.Description != nil {
			fmt.Fprintf(out, "  %s: expected %.2f, actual %.2f (%.2f %s)\n",
				issue.Description.ContextLabel,
				issue.Description.ExpectedValue,
				issue.Description.ActualValue,
				issue.Description.AffectedUnits,
				issue.Description.UnitType)
		}
		if issue.ImpactAmount > 0 {
			fmt.Fprintf(out, "  impact: $%.2f\n", issue.ImpactAmount)
		}
	}
}
