package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/baddebtguard/risk-engine/internal/model"
	"github.com/baddebtguard/risk-engine/internal/pipeline"
	"github.com/baddebtguard/risk-engine/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for analysis requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		router := newRouter(env.Pipeline, env.Store, cfg.Server.AllowedOrigins)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// analyzeRequest is the POST /api/analyze body.
type analyzeRequest struct {
	BankingSystem string             `json:"banking_system"`
	LoanType      string             `json:"loan_type"`
	CustomerType  string             `json:"customer_type"`
	ExtractedText string             `json:"extracted_text"`
	Fields        map[string]float64 `json:"fields,omitempty"`
}

func newRouter(p *pipeline.Pipeline, st store.Store, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":           "operational",
			"banking_systems":  model.AllBankingSystems(),
			"loan_types":       model.AllLoanTypes(),
			"customer_types":   model.AllCustomerTypes(),
			"analysis_engines": []string{"fraud", "credit", "quantitative", "qualitative", "fusion"},
		})
	})

	r.Post("/api/analyze", func(w http.ResponseWriter, req *http.Request) {
		var body analyzeRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		analysisReq := model.AnalysisRequest{
			Context: model.AnalysisContext{
				BankingSystem: model.BankingSystem(body.BankingSystem),
				LoanType:      model.LoanType(body.LoanType),
				CustomerType:  model.CustomerType(body.CustomerType),
			},
			ExtractedText: body.ExtractedText,
			Fields:        body.Fields,
		}
		if err := analysisReq.Context.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := p.Run(req.Context(), analysisReq)
		if err != nil {
			zap.L().Error("api: analysis failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "analysis failed")
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	r.Get("/api/runs", func(w http.ResponseWriter, req *http.Request) {
		filter := store.RunFilter{
			Status:   model.RunStatus(req.URL.Query().Get("status")),
			LoanType: model.LoanType(req.URL.Query().Get("loan_type")),
		}
		runs, err := st.ListRuns(req.Context(), filter)
		if err != nil {
			zap.L().Error("api: list runs failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list runs failed")
			return
		}
		if runs == nil {
			runs = []model.Run{}
		}
		writeJSON(w, http.StatusOK, runs)
	})

	r.Get("/api/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		run, err := st.GetRun(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		stages, err := st.ListStages(req.Context(), run.ID)
		if err != nil {
			zap.L().Warn("api: list stages failed", zap.String("run_id", run.ID), zap.Error(err))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"run":    run,
			"stages": stages,
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
