package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/journal"
	"github.com/cleared-dev/ledger/internal/model"
)

type openingRequest struct {
	AccountID int64         `json:"account_id"`
	YearID    int64         `json:"financial_year_id"`
	Amount    model.Balance `json:"amount"`
}

type txnRequest struct {
	Date   string          `json:"date"`
	From   int64           `json:"from_account_id"`
	To     int64           `json:"to_account_id"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
	YearID int64           `json:"financial_year_id"`
}

func (req txnRequest) date() (time.Time, error) {
	if strings.TrimSpace(req.Date) == "" {
		return time.Time{}, nil
	}
	return model.ParseDate(strings.TrimSpace(req.Date))
}

// yearOrActive returns id, or the active year's ID when id is 0.
func (s *Server) yearOrActive(ctx context.Context, id int64) (int64, error) {
	if id != 0 {
		return id, nil
	}
	y, err := s.svc.Years.ActiveYear(ctx)
	if err != nil {
		return 0, err
	}
	return y.ID, nil
}

func (s *Server) listOpenings(w http.ResponseWriter, r *http.Request) {
	yearID, err := queryID(r, "year")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if yearID, err = s.yearOrActive(r.Context(), yearID); err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.svc.Journal.ListOpenings(r.Context(), yearID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"opening_balances": orEmpty(list)})
}

func (s *Server) setOpening(w http.ResponseWriter, r *http.Request) {
	var req openingRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	yearID, err := s.yearOrActive(r.Context(), req.YearID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ob, err := s.svc.Journal.SetOpening(r.Context(), req.AccountID, yearID, req.Amount)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"opening_balance": ob})
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	var f journal.ListFilter
	var err error
	if f.YearID, err = queryID(r, "year"); err != nil {
		s.fail(w, r, err)
		return
	}
	if f.AccountID, err = queryID(r, "account"); err != nil {
		s.fail(w, r, err)
		return
	}
	if f.Range.From, err = queryDate(r, "from"); err != nil {
		s.fail(w, r, err)
		return
	}
	if f.Range.To, err = queryDate(r, "to"); err != nil {
		s.fail(w, r, err)
		return
	}
	txns, err := s.svc.Journal.List(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": orEmpty(txns)})
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req txnRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	date, err := req.date()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	yearID, err := s.yearOrActive(r.Context(), req.YearID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	txn, err := s.svc.Journal.Add(r.Context(), journal.AddParams{
		Date:      date,
		From:      req.From,
		To:        req.To,
		Amount:    req.Amount,
		Note:      req.Note,
		YearID:    yearID,
		CreatedBy: s.userID,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"transaction": txn})
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	txn, err := s.svc.Journal.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transaction": txn})
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req txnRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	date, err := req.date()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	txn, err := s.svc.Journal.Update(r.Context(), id, journal.UpdateParams{
		Date:   date,
		From:   req.From,
		To:     req.To,
		Amount: req.Amount,
		Note:   req.Note,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transaction": txn})
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Journal.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
