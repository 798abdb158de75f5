package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dialdesk-systems/dialdesk-stack/common/logging"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/metrics"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/repository"
)

var ErrEmptyRecord = errors.New("request must carry exactly one record")

func (s *Service) CreateEnterprise(ctx context.Context, req *models.CreateEnterpriseRequest, actorID, ipAddress string) (*models.Enterprise, error) {
	if _, err := s.repo.GetOffice(ctx, req.OfficeID); err != nil {
		return nil, err
	}

	enterpriseID, _ := uuid.NewV7()
	enterprise := &models.Enterprise{
		ID:        enterpriseID.String(),
		OfficeID:  req.OfficeID,
		Name:      req.Name,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateEnterprise(ctx, enterprise); err != nil {
		return nil, err
	}

	s.auditLog.Log(ctx, actorID, "", models.ActionEnterpriseCreate, "enterprise", enterprise.ID,
		ipAddress, models.ResultSuccess, "",
		map[string]interface{}{"office_id": req.OfficeID, "name": req.Name})

	return enterprise, nil
}

// AddRecord stores one history record of any kind for an enterprise. Exactly
// one of the request's record fields must be set.
func (s *Service) AddRecord(ctx context.Context, enterpriseID string, req *models.IngestRecordRequest, actorID, ipAddress string) (*models.HistoryItem, error) {
	if _, err := s.repo.GetEnterprise(ctx, enterpriseID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recordID, _ := uuid.NewV7()

	var item models.HistoryItem
	var err error
	switch {
	case req.Call != nil:
		rec := *req.Call
		rec.ID = recordID.String()
		rec.EnterpriseID = enterpriseID
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		err = s.repo.InsertCallRecord(ctx, &rec)
		item = models.NewHistoryCall(&rec)
	case req.Message != nil:
		rec := *req.Message
		rec.ID = recordID.String()
		rec.EnterpriseID = enterpriseID
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		err = s.repo.InsertMessageRecord(ctx, &rec)
		item = models.NewHistoryMessage(&rec)
	case req.CallV2 != nil:
		rec := *req.CallV2
		rec.ID = recordID.String()
		rec.EnterpriseID = enterpriseID
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		if rec.ArrivedAt.IsZero() {
			rec.ArrivedAt = now
		}
		err = s.repo.InsertCallSession(ctx, &rec)
		item = models.NewHistoryCallV2(&rec)
	case req.MessageV2 != nil:
		rec := *req.MessageV2
		rec.ID = recordID.String()
		rec.EnterpriseID = enterpriseID
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		if rec.ArrivedAt.IsZero() {
			rec.ArrivedAt = now
		}
		err = s.repo.InsertMessageSession(ctx, &rec)
		item = models.NewHistoryMessageV2(&rec)
	default:
		return nil, ErrEmptyRecord
	}
	if err != nil {
		return nil, err
	}

	kind, _ := item.Kind()
	metrics.RecordsIngested.WithLabelValues(string(kind)).Inc()
	s.auditLog.Log(ctx, actorID, "", models.ActionRecordIngest, string(kind), item.RecordID(),
		ipAddress, models.ResultSuccess, "",
		map[string]interface{}{"enterprise_id": enterpriseID})

	return &item, nil
}

// EnterpriseHistory merges the four record sources for an enterprise into a
// single feed, newest first. Sessions sharing a session ID collapse to one
// item. The date filter applies only when both bounds are set.
func (s *Service) EnterpriseHistory(ctx context.Context, enterpriseID string, filter repository.HistoryFilter, actorID, ipAddress string) ([]models.HistoryItem, error) {
	if _, err := s.repo.GetEnterprise(ctx, enterpriseID); err != nil {
		return nil, err
	}

	var items []models.HistoryItem

	calls, err := s.listTimed(ctx, "call", func() (int, error) {
		recs, err := s.repo.ListCallRecords(ctx, enterpriseID, filter)
		for _, rec := range recs {
			items = append(items, models.NewHistoryCall(rec))
		}
		return len(recs), err
	})
	if err != nil {
		return nil, err
	}

	messages, err := s.listTimed(ctx, "message", func() (int, error) {
		recs, err := s.repo.ListMessageRecords(ctx, enterpriseID, filter)
		for _, rec := range recs {
			items = append(items, models.NewHistoryMessage(rec))
		}
		return len(recs), err
	})
	if err != nil {
		return nil, err
	}

	// Source rows arrive newest first, so keeping the first occurrence per
	// session ID keeps the latest row. Each kind de-duplicates independently.
	callSessions, err := s.listTimed(ctx, "call_v2", func() (int, error) {
		recs, err := s.repo.ListCallSessions(ctx, enterpriseID, filter)
		seen := make(map[string]bool, len(recs))
		kept := 0
		for _, rec := range recs {
			if seen[rec.SessionID] {
				metrics.HistoryDuplicateSessions.Inc()
				continue
			}
			seen[rec.SessionID] = true
			items = append(items, models.NewHistoryCallV2(rec))
			kept++
		}
		return kept, err
	})
	if err != nil {
		return nil, err
	}

	messageSessions, err := s.listTimed(ctx, "message_v2", func() (int, error) {
		recs, err := s.repo.ListMessageSessions(ctx, enterpriseID, filter)
		seen := make(map[string]bool, len(recs))
		kept := 0
		for _, rec := range recs {
			if seen[rec.SessionID] {
				metrics.HistoryDuplicateSessions.Inc()
				continue
			}
			seen[rec.SessionID] = true
			items = append(items, models.NewHistoryMessageV2(rec))
			kept++
		}
		return kept, err
	})
	if err != nil {
		return nil, err
	}

	sortHistory(items)

	metrics.HistoryItemsReturned.Observe(float64(len(items)))
	s.auditLog.Log(ctx, actorID, "", models.ActionHistoryRead, "enterprise", enterpriseID,
		ipAddress, models.ResultSuccess, "",
		map[string]interface{}{"count": len(items)})
	s.log.DebugContext(ctx, "assembled enterprise history",
		logging.EnterpriseID(enterpriseID),
		"calls", calls,
		"messages", messages,
		"call_sessions", callSessions,
		"message_sessions", messageSessions,
		"total", len(items),
	)

	return items, nil
}

func (s *Service) listTimed(_ context.Context, kind string, fn func() (int, error)) (int, error) {
	timer := prometheus.NewTimer(metrics.HistoryFanoutDuration.WithLabelValues(kind))
	defer timer.ObserveDuration()
	return fn()
}

// sortHistory orders items newest first. Ties on creation time break on kind
// tag, then record ID, so repeated requests return the same order.
func sortHistory(items []models.HistoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := items[i].CreatedAt(), items[j].CreatedAt()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		ki, _ := items[i].Kind()
		kj, _ := items[j].Kind()
		if ki != kj {
			return ki < kj
		}
		return items[i].RecordID() < items[j].RecordID()
	})
}
