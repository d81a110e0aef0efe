package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/funance/funance/forecast"
)

type accountResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	StartDate      string  `json:"start_date"`
	OpeningBalance float64 `json:"opening_balance"`
}

type seriesRowResponse struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Balance     float64 `json:"balance"`
	Description string  `json:"description"`
}

type seriesResponse struct {
	AccountID string              `json:"account_id"`
	Name      string              `json:"name"`
	Rows      []seriesRowResponse `json:"rows"`
}

type forecastResponse struct {
	Start    string           `json:"start"`
	End      string           `json:"end"`
	Accounts []seriesResponse `json:"accounts"`
}

type chartResponse struct {
	Name     string           `json:"name"`
	Type     string           `json:"type"`
	Accounts []seriesResponse `json:"accounts"`
}

type runwaySourceResponse struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type runwayResponse struct {
	Sources      []runwaySourceResponse `json:"sources"`
	Total        float64                `json:"total"`
	GoalMonths   float64                `json:"goal_months"`
	ActualMonths float64                `json:"actual_months"`
	MeetsGoal    bool                   `json:"meets_goal"`
}

func newSeriesResponse(series forecast.AccountSeries) seriesResponse {
	rows := make([]seriesRowResponse, 0, len(series.Series))
	for _, row := range series.Series {
		rows = append(rows, seriesRowResponse{
			Date:        row.Date.String(),
			Amount:      row.Amount.InexactFloat64(),
			Balance:     row.Balance.InexactFloat64(),
			Description: row.Description,
		})
	}
	return seriesResponse{AccountID: series.AccountID, Name: series.Name, Rows: rows}
}

// buildProjector constructs a fresh projector from the current document,
// honoring optional start/end query parameters.
func (s *Server) buildProjector(r *http.Request) (*forecast.Projector, error) {
	start, end := forecast.DefaultWindow(time.Now())

	if v := r.URL.Query().Get("start"); v != "" {
		parsed, err := forecast.NewDate(v)
		if err != nil {
			return nil, err
		}
		start = parsed
	}
	if v := r.URL.Query().Get("end"); v != "" {
		parsed, err := forecast.NewDate(v)
		if err != nil {
			return nil, err
		}
		end = parsed
	}

	return forecast.FromSpec(r.Context(), s.document(), start, end)
}

func (s *Server) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
	projector, err := s.buildProjector(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	response := make([]accountResponse, 0)
	for _, account := range projector.Accounts().All() {
		response = append(response, accountResponse{
			ID:             account.ID,
			Name:           account.Name,
			Type:           account.Type.String(),
			StartDate:      account.StartDate.String(),
			OpeningBalance: account.OpeningBalance.InexactFloat64(),
		})
	}

	s.writeJSON(w, response)
}

func (s *Server) handleGetForecast(w http.ResponseWriter, r *http.Request) {
	projector, err := s.buildProjector(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if accountID := r.URL.Query().Get("account"); accountID != "" {
		series, err := projector.Series(accountID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, newSeriesResponse(series))
		return
	}

	response := forecastResponse{
		Start:    projector.Start.String(),
		End:      projector.End.String(),
		Accounts: make([]seriesResponse, 0),
	}
	for _, account := range projector.Accounts().All() {
		series, err := projector.Series(account.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		response.Accounts = append(response.Accounts, newSeriesResponse(series))
	}

	s.writeJSON(w, response)
}

func (s *Server) handleGetCharts(w http.ResponseWriter, r *http.Request) {
	projector, err := s.buildProjector(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	charts, err := projector.Charts()
	if err != nil {
		s.writeError(w, err)
		return
	}

	response := make([]chartResponse, 0, len(charts))
	for _, chart := range charts {
		cr := chartResponse{Name: chart.Name, Type: chart.Type, Accounts: make([]seriesResponse, 0, len(chart.Accounts))}
		for _, series := range chart.Accounts {
			cr.Accounts = append(cr.Accounts, newSeriesResponse(series))
		}
		response = append(response, cr)
	}

	s.writeJSON(w, response)
}

func (s *Server) handleGetRunway(w http.ResponseWriter, r *http.Request) {
	ef := s.document().Forecast.EmergencyFund
	if ef == nil {
		http.Error(w, "no emergency_fund declared", http.StatusNotFound)
		return
	}

	report, err := forecast.NewRunwayReport(ef)
	if err != nil {
		s.writeError(w, err)
		return
	}

	response := runwayResponse{
		Sources:      make([]runwaySourceResponse, 0, len(report.Sources)),
		Total:        report.Total.InexactFloat64(),
		GoalMonths:   report.GoalMonths.InexactFloat64(),
		ActualMonths: report.ActualMonths.InexactFloat64(),
		MeetsGoal:    report.MeetsGoal(),
	}
	for _, source := range report.Sources {
		response.Sources = append(response.Sources, runwaySourceResponse{
			Name:  source.Name,
			Value: source.Value.InexactFloat64(),
		})
	}

	s.writeJSON(w, response)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	var notFound *forecast.AccountNotFoundError
	if errors.As(err, &notFound) {
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}
