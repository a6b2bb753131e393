package conversations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/postgres"
)

const maxMessageLength = 4000

var (
	ErrValidation     = errors.New("validation error")
	ErrEmptyMessage   = errors.New("message content is empty")
	ErrMessageTooLong = errors.New("message content is too long")
	ErrMatchNotFound  = errors.New("match not found")
	ErrMatchInactive  = errors.New("match is no longer active")
	ErrNotParticipant = errors.New("user is not part of this match")
)

type MatchStore interface {
	GetByID(ctx context.Context, matchID int64) (pgrepo.MatchRecord, error)
}

type MessageStore interface {
	Create(ctx context.Context, tx pgx.Tx, matchID, senderID int64, content string, now time.Time) (pgrepo.MessageRecord, error)
	ListByMatch(ctx context.Context, matchID int64) ([]pgrepo.MessageRecord, error)
	MarkReadForRecipient(ctx context.Context, matchID, readerID int64) (int64, error)
}

type Message struct {
	ID        int64
	MatchID   int64
	SenderID  int64
	Content   string
	IsRead    bool
	CreatedAt time.Time
}

type Service struct {
	pool         *pgxpool.Pool
	matchStore   MatchStore
	messageStore MessageStore
	runTx        func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	now          func() time.Time
}

type Dependencies struct {
	Pool         *pgxpool.Pool
	MatchStore   MatchStore
	MessageStore MessageStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		pool:         deps.Pool,
		matchStore:   deps.MatchStore,
		messageStore: deps.MessageStore,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, deps.Pool, fn)
		},
		now: time.Now,
	}
}

// PostMessage appends to the conversation. Only the two match participants
// may write, and only while the match is active.
func (s *Service) PostMessage(ctx context.Context, senderID, matchID int64, content string) (Message, error) {
	if senderID <= 0 || matchID <= 0 {
		return Message{}, ErrValidation
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, ErrEmptyMessage
	}
	if len(content) > maxMessageLength {
		return Message{}, ErrMessageTooLong
	}
	if s.matchStore == nil || s.messageStore == nil {
		return Message{}, fmt.Errorf("conversation dependencies are not configured")
	}

	match, err := s.loadMatchFor(ctx, senderID, matchID)
	if err != nil {
		return Message{}, err
	}
	if !match.IsActive {
		return Message{}, ErrMatchInactive
	}

	now := s.now().UTC()

	var message Message
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		rec, err := s.messageStore.Create(txCtx, tx, matchID, senderID, content, now)
		if err != nil {
			return err
		}
		message = toMessage(rec)
		return nil
	}); err != nil {
		return Message{}, err
	}

	return message, nil
}

// ListMessages returns the conversation oldest first.
func (s *Service) ListMessages(ctx context.Context, userID, matchID int64) ([]Message, error) {
	if userID <= 0 || matchID <= 0 {
		return nil, ErrValidation
	}
	if s.matchStore == nil || s.messageStore == nil {
		return nil, fmt.Errorf("conversation dependencies are not configured")
	}

	if _, err := s.loadMatchFor(ctx, userID, matchID); err != nil {
		return nil, err
	}

	records, err := s.messageStore.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(records))
	for _, rec := range records {
		messages = append(messages, toMessage(rec))
	}
	return messages, nil
}

// MarkRead flips every unread message addressed to userID. Repeating the
// call changes nothing and reports zero.
func (s *Service) MarkRead(ctx context.Context, userID, matchID int64) (int64, error) {
	if userID <= 0 || matchID <= 0 {
		return 0, ErrValidation
	}
	if s.matchStore == nil || s.messageStore == nil {
		return 0, fmt.Errorf("conversation dependencies are not configured")
	}

	if _, err := s.loadMatchFor(ctx, userID, matchID); err != nil {
		return 0, err
	}

	updated, err := s.messageStore.MarkReadForRecipient(ctx, matchID, userID)
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// loadMatchFor resolves the match and verifies userID belongs to it.
// A non-participant is rejected with ErrNotParticipant.
func (s *Service) loadMatchFor(ctx context.Context, userID, matchID int64) (pgrepo.MatchRecord, error) {
	match, err := s.matchStore.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return pgrepo.MatchRecord{}, ErrMatchNotFound
		}
		return pgrepo.MatchRecord{}, err
	}
	if match.UserAID != userID && match.UserBID != userID {
		return pgrepo.MatchRecord{}, ErrNotParticipant
	}
	return match, nil
}

func toMessage(rec pgrepo.MessageRecord) Message {
	return Message{
		ID:        rec.ID,
		MatchID:   rec.MatchID,
		SenderID:  rec.SenderID,
		Content:   rec.Content,
		IsRead:    rec.IsRead,
		CreatedAt: rec.CreatedAt,
	}
}
