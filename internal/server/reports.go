package server

import (
	"net/http"
)

func (s *Server) ledgerReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "account")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q, err := reportQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	l, err := s.svc.Reports.Ledger(r.Context(), id, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) trialBalance(w http.ResponseWriter, r *http.Request) {
	q, err := reportQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tb, err := s.svc.Reports.TrialBalance(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if r.URL.Query().Get("all") != "true" {
		tb.Lines = tb.NonZero()
	}
	writeJSON(w, http.StatusOK, tb)
}

func (s *Server) balanceSheet(w http.ResponseWriter, r *http.Request) {
	q, err := reportQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	bs, err := s.svc.Reports.BalanceSheet(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (s *Server) profitLoss(w http.ResponseWriter, r *http.Request) {
	q, err := reportQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	pl, err := s.svc.Reports.ProfitLoss(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profit_loss": pl, "label": pl.Label()})
}

func (s *Server) outstanding(w http.ResponseWriter, r *http.Request) {
	q, err := reportQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.svc.Reports.Outstanding(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) outstandingByGroup(w http.ResponseWriter, r *http.Request) {
	q, err := reportQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.svc.Reports.OutstandingByGroup(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) groupAccounts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q, err := reportQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.svc.Reports.GroupAccounts(r.Context(), id, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) cashFlow(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "account")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q, err := reportQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cf, err := s.svc.Reports.CashFlow(r.Context(), id, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cf)
}

func (s *Server) cashAccounts(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Reports.CashAccounts(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": orEmpty(list)})
}

func (s *Server) dayBook(w http.ResponseWriter, r *http.Request) {
	q, err := reportQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	book, err := s.svc.Reports.DayBook(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}
