package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/baddebtguard/risk-engine/internal/model"
)

var (
	analyzeDocPath    string
	analyzeFieldsPath string
	analyzeBanking    string
	analyzeLoanType   string
	analyzeCustomer   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a risk analysis for a single applicant document",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("analyze"); err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		req := model.AnalysisRequest{
			Context: model.AnalysisContext{
				BankingSystem: model.BankingSystem(analyzeBanking),
				LoanType:      model.LoanType(analyzeLoanType),
				CustomerType:  model.CustomerType(analyzeCustomer),
			},
		}

		if analyzeDocPath != "" {
			text, err := os.ReadFile(analyzeDocPath)
			if err != nil {
				return eris.Wrap(err, "read document")
			}
			req.ExtractedText = string(text)
		}

		if analyzeFieldsPath != "" {
			data, err := os.ReadFile(analyzeFieldsPath)
			if err != nil {
				return eris.Wrap(err, "read fields")
			}
			if err := json.Unmarshal(data, &req.Fields); err != nil {
				return eris.Wrap(err, "parse fields")
			}
		}

		result, err := env.Pipeline.Run(ctx, req)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		zap.L().Info("analysis complete",
			zap.String("run_id", result.RunID),
			zap.Float64("final_probability", result.Decision.FinalProbability),
			zap.String("final_risk_tier", string(result.Decision.FinalRiskTier)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDocPath, "document", "", "path to the extracted document text")
	analyzeCmd.Flags().StringVar(&analyzeFieldsPath, "fields", "", "path to a JSON file of extracted numeric fields")
	analyzeCmd.Flags().StringVar(&analyzeBanking, "banking-system", "conventional", "banking system (conventional, islamic)")
	analyzeCmd.Flags().StringVar(&analyzeLoanType, "loan-type", "", "loan type (home, car, personal, business)")
	analyzeCmd.Flags().StringVar(&analyzeCustomer, "customer-type", "salaried", "customer type (salaried, rental, small-business, large-business)")
	_ = analyzeCmd.MarkFlagRequired("loan-type")
	rootCmd.AddCommand(analyzeCmd)
}
