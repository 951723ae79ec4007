package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/vaheed/airlog/internal/models"
	"github.com/vaheed/airlog/internal/window"
)

const noDataMessage = "No data available for the last 24 hours"

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.dbTimeout)
	defer cancel()
	ack, err := s.recorder.Record(ctx, body)
	switch {
	case errors.Is(err, models.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, models.ErrPersistence):
		s.log.Error("record sample", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "db")
		return
	case err != nil:
		s.log.Error("record sample", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.dbTimeout)
	defer cancel()
	res, err := s.windows.Last24h(ctx)
	if err != nil {
		s.log.Error("aggregate samples", slog.String("error", err.Error()))
		if errors.Is(err, models.ErrPersistence) {
			writeError(w, http.StatusServiceUnavailable, "db")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if res.NoData {
		writeJSON(w, http.StatusOK, map[string]string{"message": noDataMessage})
		return
	}
	writeJSON(w, http.StatusOK, res.Series())
}

type chart struct {
	Key   string `json:"key"`
	Color string `json:"color"`
}

type dashboardView struct {
	Title  string
	Window string
	Charts []chart
}

var dashboardCharts = []chart{
	{Key: "pm02", Color: "rgb(75, 192, 192)"},
	{Key: "rco2", Color: "rgb(255, 99, 132)"},
	{Key: "atmp", Color: "rgb(54, 162, 235)"},
	{Key: "rhum", Color: "rgb(153, 102, 255)"},
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	view := dashboardView{
		Title:  "Logged Values in Last 24 Hours",
		Window: window.Size.String(),
		Charts: dashboardCharts,
	}
	if err := dashboard.Execute(w, view); err != nil {
		s.log.Error("render dashboard", slog.String("error", err.Error()))
	}
}
