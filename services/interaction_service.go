package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"amoria_server/models"
)

// ConversationAccepter flips any pending conversation between the two
// profiles to ACCEPTED. Invoked exactly once per newly-formed match.
type ConversationAccepter interface {
	AcceptConversationBetween(ctx context.Context, profileA, profileB string) error
}

// EventNotifier delivers a domain event to a profile, falling back to an
// offline channel when no connection is open.
type EventNotifier interface {
	Notify(ctx context.Context, profileID string, event models.RealtimeEvent)
}

// InteractionService records like/pass actions between profiles and detects
// mutual likes. A match is never stored as state of its own for reads: it is
// derived from the two opposing edges. The match record only serializes the
// formation so its side effects fire exactly once.
type InteractionService struct {
	Store    DataStore
	Accepter ConversationAccepter
	Notifier EventNotifier
}

// Like creates/ensures the directed edge and reports whether it completed a
// match. The formation side effects (conversation acceptance, new_match
// fan-out to both profiles) fire only on the call that completes the pair:
// the reverse-edge check is a strongly-consistent read and the match record
// insert is an atomic check-and-insert on the pair key, so two concurrent
// opposing likes resolve to exactly one winner.
func (s *InteractionService) Like(ctx context.Context, senderProfileID, targetProfileID string) (bool, error) {
	if senderProfileID == targetProfileID {
		return false, models.NewAppError(models.CodeInvalidOperation, "a profile cannot like itself")
	}

	edge := models.LikeEdge{
		SenderProfileID: senderProfileID,
		TargetProfileID: targetProfileID,
		IsNew:           true,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Store.PutLikeEdge(ctx, edge); err != nil {
		return false, fmt.Errorf("failed to save like: %w", err)
	}

	reverse, err := s.Store.GetLikeEdge(ctx, targetProfileID, senderProfileID)
	if err != nil {
		return false, fmt.Errorf("failed to check reverse like: %w", err)
	}

	if reverse == nil {
		s.notifyLike(ctx, senderProfileID, targetProfileID)
		return false, nil
	}

	record := models.MatchRecord{
		PairKey:   models.PairKey(senderProfileID, targetProfileID),
		ProfileA:  minProfile(senderProfileID, targetProfileID),
		ProfileB:  maxProfile(senderProfileID, targetProfileID),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	created, err := s.Store.CreateMatchRecord(ctx, record)
	if err != nil {
		return true, fmt.Errorf("failed to record match: %w", err)
	}
	if !created {
		// The opposing like call already completed the pair and fired the
		// side effects.
		return true, nil
	}

	log.Printf("🎉 Match formed: %s ❤️ %s", senderProfileID, targetProfileID)
	if err := s.Accepter.AcceptConversationBetween(ctx, senderProfileID, targetProfileID); err != nil {
		return true, fmt.Errorf("failed to accept pending conversation: %w", err)
	}
	s.notifyMatch(ctx, senderProfileID, targetProfileID)
	s.notifyMatch(ctx, targetProfileID, senderProfileID)
	return true, nil
}

// Unlike removes the directed edge, and with it any match the pair held.
func (s *InteractionService) Unlike(ctx context.Context, senderProfileID, targetProfileID string) error {
	if err := s.Store.DeleteLikeAndMatch(ctx, senderProfileID, targetProfileID); err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

// Pass hides the target from the sender. An explicit pass always wins over a
// prior like: both directed like edges are retracted in the same unit that
// upserts the hidden edge. Passing twice is a no-op.
func (s *InteractionService) Pass(ctx context.Context, senderProfileID, targetProfileID string) error {
	if senderProfileID == targetProfileID {
		return models.NewAppError(models.CodeInvalidOperation, "a profile cannot pass on itself")
	}

	hidden := models.HiddenEdge{
		SenderProfileID: senderProfileID,
		TargetProfileID: targetProfileID,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Store.PassProfile(ctx, hidden); err != nil {
		return fmt.Errorf("failed to pass profile: %w", err)
	}
	return nil
}

// Unpass removes the hidden edge if present.
func (s *InteractionService) Unpass(ctx context.Context, senderProfileID, targetProfileID string) error {
	if err := s.Store.DeleteHiddenEdge(ctx, senderProfileID, targetProfileID); err != nil {
		return fmt.Errorf("failed to unpass profile: %w", err)
	}
	return nil
}

// GetLikesReceivedCount returns how many profiles currently like the viewer.
func (s *InteractionService) GetLikesReceivedCount(ctx context.Context, profileID string) (int, error) {
	received, err := s.Store.QueryLikesReceived(ctx, profileID)
	if err != nil {
		return 0, err
	}
	return len(received), nil
}

// GetLikesSent returns the viewer's sent likes with the target profile
// hydrated, each annotated with whether the pair is currently mutual.
func (s *InteractionService) GetLikesSent(ctx context.Context, profileID string) ([]models.LikeWithProfile, error) {
	sent, err := s.Store.QueryLikesSent(ctx, profileID)
	if err != nil {
		return nil, err
	}
	likedBy, err := s.likedBySet(ctx, profileID)
	if err != nil {
		return nil, err
	}

	targetIDs := make([]string, 0, len(sent))
	for _, edge := range sent {
		targetIDs = append(targetIDs, edge.TargetProfileID)
	}
	summaries, err := s.Store.GetProfileSummaries(ctx, targetIDs)
	if err != nil {
		return nil, err
	}

	likes := make([]models.LikeWithProfile, 0, len(sent))
	for _, edge := range sent {
		summary, ok := summaries[edge.TargetProfileID]
		if !ok {
			continue
		}
		_, mutual := likedBy[edge.TargetProfileID]
		likes = append(likes, models.LikeWithProfile{
			Profile:   summary,
			IsMatch:   mutual,
			IsNew:     edge.IsNew,
			CreatedAt: edge.CreatedAt,
		})
	}
	return likes, nil
}

// GetMatches returns the viewer's mutual likes, partner profile hydrated.
// IsNew carries the viewer's own edge flag; MatchedAt is the moment the
// later of the two edges was created.
func (s *InteractionService) GetMatches(ctx context.Context, profileID string) ([]models.MatchWithProfile, error) {
	sent, err := s.Store.QueryLikesSent(ctx, profileID)
	if err != nil {
		return nil, err
	}
	received, err := s.Store.QueryLikesReceived(ctx, profileID)
	if err != nil {
		return nil, err
	}

	receivedBySender := make(map[string]models.LikeEdge, len(received))
	for _, edge := range received {
		receivedBySender[edge.SenderProfileID] = edge
	}

	var partnerIDs []string
	for _, edge := range sent {
		if _, ok := receivedBySender[edge.TargetProfileID]; ok {
			partnerIDs = append(partnerIDs, edge.TargetProfileID)
		}
	}
	summaries, err := s.Store.GetProfileSummaries(ctx, partnerIDs)
	if err != nil {
		return nil, err
	}

	var matches []models.MatchWithProfile
	for _, edge := range sent {
		reverse, ok := receivedBySender[edge.TargetProfileID]
		if !ok {
			continue
		}
		summary, ok := summaries[edge.TargetProfileID]
		if !ok {
			continue
		}
		matchedAt := edge.CreatedAt
		if reverse.CreatedAt > matchedAt {
			matchedAt = reverse.CreatedAt
		}
		matches = append(matches, models.MatchWithProfile{
			Profile:   summary,
			IsNew:     edge.IsNew,
			MatchedAt: matchedAt,
		})
	}
	return matches, nil
}

// GetNewMatchesCount counts matches the viewer has not marked as seen yet.
func (s *InteractionService) GetNewMatchesCount(ctx context.Context, profileID string) (int, error) {
	matches, err := s.GetMatches(ctx, profileID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, match := range matches {
		if match.IsNew {
			count++
		}
	}
	return count, nil
}

// MarkMatchAsSeen clears the is-new flag on both directions of the pair, so
// one party seeing the match does not leave the other edge perpetually stale.
func (s *InteractionService) MarkMatchAsSeen(ctx context.Context, profileA, profileB string) error {
	if err := s.Store.ClearLikeEdgeNew(ctx, profileA, profileB); err != nil {
		return fmt.Errorf("failed to mark match as seen: %w", err)
	}
	if err := s.Store.ClearLikeEdgeNew(ctx, profileB, profileA); err != nil {
		return fmt.Errorf("failed to mark match as seen: %w", err)
	}
	return nil
}

// GetHiddenProfileIDs returns the targets the viewer has passed on.
func (s *InteractionService) GetHiddenProfileIDs(ctx context.Context, profileID string) ([]string, error) {
	hidden, err := s.Store.QueryHiddenEdges(ctx, profileID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(hidden))
	for _, edge := range hidden {
		ids = append(ids, edge.TargetProfileID)
	}
	return ids, nil
}

// IsMatch reports whether both opposing edges currently exist.
func (s *InteractionService) IsMatch(ctx context.Context, profileA, profileB string) (bool, error) {
	forward, err := s.Store.GetLikeEdge(ctx, profileA, profileB)
	if err != nil {
		return false, err
	}
	if forward == nil {
		return false, nil
	}
	reverse, err := s.Store.GetLikeEdge(ctx, profileB, profileA)
	if err != nil {
		return false, err
	}
	return reverse != nil, nil
}

func (s *InteractionService) likedBySet(ctx context.Context, profileID string) (map[string]struct{}, error) {
	received, err := s.Store.QueryLikesReceived(ctx, profileID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(received))
	for _, edge := range received {
		set[edge.SenderProfileID] = struct{}{}
	}
	return set, nil
}

func (s *InteractionService) notifyLike(ctx context.Context, senderProfileID, targetProfileID string) {
	summaries, err := s.Store.GetProfileSummaries(ctx, []string{senderProfileID})
	if err != nil {
		log.Printf("❌ Failed to hydrate liker profile %s: %v", senderProfileID, err)
		return
	}
	summary, ok := summaries[senderProfileID]
	if !ok {
		return
	}
	s.Notifier.Notify(ctx, targetProfileID, models.RealtimeEvent{
		Type:    models.EventNewLike,
		Payload: models.NewMatchPayload{Profile: summary},
	})
}

func (s *InteractionService) notifyMatch(ctx context.Context, recipientProfileID, partnerProfileID string) {
	summaries, err := s.Store.GetProfileSummaries(ctx, []string{partnerProfileID})
	if err != nil {
		log.Printf("❌ Failed to hydrate match partner %s: %v", partnerProfileID, err)
		return
	}
	summary, ok := summaries[partnerProfileID]
	if !ok {
		return
	}
	s.Notifier.Notify(ctx, recipientProfileID, models.RealtimeEvent{
		Type:    models.EventNewMatch,
		Payload: models.NewMatchPayload{Profile: summary},
	})
}

func minProfile(a, b string) string {
	if a < b {
		return a
	}
	return b
}

func maxProfile(a, b string) string {
	if a > b {
		return a
	}
	return b
}
