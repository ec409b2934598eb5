package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dealhive/dealhive-backend/internal/models"
	"github.com/dealhive/dealhive-backend/internal/submission"
)

type submitRequest struct {
	Title         string           `json:"title" validate:"required"`
	Description   string           `json:"description" validate:"required"`
	Code          string           `json:"code"`
	DealURL       string           `json:"dealUrl" validate:"required,url"`
	SavingsType   string           `json:"savingsType"`
	SavingsAmount string           `json:"savingsAmount"`
	SavingsValue  float64          `json:"savingsValue"`
	DiscountType  string           `json:"discountType"`
	Conditions    string           `json:"conditions"`
	ImageURL      string           `json:"imageUrl"`
	ExpiresAt     *time.Time       `json:"expiresAt"`
	SubmittedBy   *models.UserRef  `json:"submittedBy"`
	Tags          []string         `json:"tags"`
	StoreID       string           `json:"storeId"`
	StoreName     string           `json:"storeName"`
	StoreDomain   string           `json:"storeDomain"`
	Category      *models.Category `json:"category" validate:"required"`
}

func (req *submitRequest) toSubmission() models.Submission {
	sub := models.Submission{
		Title:         req.Title,
		Description:   req.Description,
		Code:          req.Code,
		DealURL:       req.DealURL,
		SavingsType:   req.SavingsType,
		SavingsAmount: req.SavingsAmount,
		SavingsValue:  req.SavingsValue,
		Conditions:    req.Conditions,
		ImageURL:      req.ImageURL,
		Tags:          req.Tags,
		StoreID:       req.StoreID,
		StoreName:     req.StoreName,
		StoreDomain:   req.StoreDomain,
	}
	if req.ExpiresAt != nil {
		sub.ExpiresAt = *req.ExpiresAt
	}
	if req.SubmittedBy != nil {
		sub.SubmittedBy = *req.SubmittedBy
	}
	if req.Category != nil {
		sub.Category = *req.Category
	}
	return sub
}

type resubmitRequest struct {
	DealID string `json:"dealId" validate:"required"`
	UserID string `json:"userId" validate:"required"`

	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Code          *string `json:"code"`
	DealURL       *string `json:"dealUrl"`
	SavingsAmount *string `json:"savingsAmount"`
	Conditions    *string `json:"conditions"`
	ImageURL      *string `json:"imageUrl"`
}

type duplicateResponse struct {
	Status  string                  `json:"status"`
	Matches []models.DuplicateMatch `json:"matches"`
}

type submitResponse struct {
	Status       string          `json:"status"`
	DealID       string          `json:"dealId"`
	AIVerdict    string          `json:"aiVerdict"`
	AIReview     models.AIReview `json:"aiReview"`
	StoreCreated bool            `json:"storeCreated"`
}

type resubmitResponse struct {
	Status   string          `json:"status"`
	AIReview models.AIReview `json:"aiReview"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.submissions.Submit(r.Context(), req.toSubmission())
	if err != nil {
		writeSubmissionError(w, err)
		return
	}

	if res.Status == submission.StatusDuplicate {
		writeJSON(w, http.StatusOK, duplicateResponse{
			Status:  res.Status,
			Matches: res.Matches,
		})
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Status:       res.Status,
		DealID:       res.DealID,
		AIVerdict:    res.Verdict.Verdict,
		AIReview:     res.Verdict,
		StoreCreated: res.StoreCreated,
	})
}

func (s *Server) handleResubmit(w http.ResponseWriter, r *http.Request) {
	var req resubmitRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.submissions.Resubmit(r.Context(), submission.EditRequest{
		DealID:        req.DealID,
		UserID:        req.UserID,
		Title:         req.Title,
		Description:   req.Description,
		Code:          req.Code,
		DealURL:       req.DealURL,
		SavingsAmount: req.SavingsAmount,
		Conditions:    req.Conditions,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		writeSubmissionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resubmitResponse{
		Status:   res.Status,
		AIReview: res.Review,
	})
}

// writeSubmissionError maps pipeline sentinels onto HTTP statuses.
func writeSubmissionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrMissingStoreInfo):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrStoreNotFound), errors.Is(err, models.ErrDealNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("Submission failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
