package services

import (
	"context"
	"sort"
	"sync"

	"amoria_server/models"
)

// memoryStore is an in-memory DataStore honoring the same atomicity contract
// as DynamoStore: multi-item operations apply under one lock.
type memoryStore struct {
	mu            sync.Mutex
	profiles      map[string]models.UserProfile
	likes         map[string]models.LikeEdge
	hidden        map[string]models.HiddenEdge
	matches       map[string]models.MatchRecord
	conversations map[string]models.Conversation
	participants  map[string][]models.Participant
	messages      map[string][]models.Message
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		profiles:      make(map[string]models.UserProfile),
		likes:         make(map[string]models.LikeEdge),
		hidden:        make(map[string]models.HiddenEdge),
		matches:       make(map[string]models.MatchRecord),
		conversations: make(map[string]models.Conversation),
		participants:  make(map[string][]models.Participant),
		messages:      make(map[string][]models.Message),
	}
}

func edgeID(sender, target string) string {
	return sender + "|" + target
}

func (m *memoryStore) addProfile(profile models.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.ProfileID] = profile
}

func (m *memoryStore) addConversation(conversation models.Conversation, participants ...models.Participant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[conversation.ConversationID] = conversation
	m.participants[conversation.ConversationID] = participants
}

func (m *memoryStore) GetProfile(_ context.Context, profileID string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if profile, ok := m.profiles[profileID]; ok {
		copied := profile
		return &copied, nil
	}
	return nil, nil
}

func (m *memoryStore) GetProfileSummaries(_ context.Context, profileIDs []string) (map[string]models.ProfileSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	summaries := make(map[string]models.ProfileSummary)
	for _, id := range profileIDs {
		if profile, ok := m.profiles[id]; ok {
			summaries[id] = profile.Summary()
		}
	}
	return summaries, nil
}

func (m *memoryStore) UpdateProfileCallable(_ context.Context, profileID string, isCallable bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if profile, ok := m.profiles[profileID]; ok {
		profile.IsCallable = isCallable
		m.profiles[profileID] = profile
	}
	return nil
}

func (m *memoryStore) PutLikeEdge(_ context.Context, edge models.LikeEdge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := edgeID(edge.SenderProfileID, edge.TargetProfileID)
	if _, ok := m.likes[id]; !ok {
		m.likes[id] = edge
	}
	return nil
}

func (m *memoryStore) GetLikeEdge(_ context.Context, sender, target string) (*models.LikeEdge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if edge, ok := m.likes[edgeID(sender, target)]; ok {
		copied := edge
		return &copied, nil
	}
	return nil, nil
}

func (m *memoryStore) QueryLikesSent(_ context.Context, sender string) ([]models.LikeEdge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var edges []models.LikeEdge
	for _, edge := range m.likes {
		if edge.SenderProfileID == sender {
			edges = append(edges, edge)
		}
	}
	return edges, nil
}

func (m *memoryStore) QueryLikesReceived(_ context.Context, target string) ([]models.LikeEdge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var edges []models.LikeEdge
	for _, edge := range m.likes {
		if edge.TargetProfileID == target {
			edges = append(edges, edge)
		}
	}
	return edges, nil
}

func (m *memoryStore) ClearLikeEdgeNew(_ context.Context, sender, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if edge, ok := m.likes[edgeID(sender, target)]; ok {
		edge.IsNew = false
		m.likes[edgeID(sender, target)] = edge
	}
	return nil
}

func (m *memoryStore) CreateMatchRecord(_ context.Context, record models.MatchRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.matches[record.PairKey]; ok {
		return false, nil
	}
	m.matches[record.PairKey] = record
	return true, nil
}

func (m *memoryStore) DeleteLikeAndMatch(_ context.Context, sender, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.likes, edgeID(sender, target))
	delete(m.matches, models.PairKey(sender, target))
	return nil
}

func (m *memoryStore) PassProfile(_ context.Context, hidden models.HiddenEdge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.likes, edgeID(hidden.SenderProfileID, hidden.TargetProfileID))
	delete(m.likes, edgeID(hidden.TargetProfileID, hidden.SenderProfileID))
	delete(m.matches, models.PairKey(hidden.SenderProfileID, hidden.TargetProfileID))
	m.hidden[edgeID(hidden.SenderProfileID, hidden.TargetProfileID)] = hidden
	return nil
}

func (m *memoryStore) DeleteHiddenEdge(_ context.Context, sender, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hidden, edgeID(sender, target))
	return nil
}

func (m *memoryStore) QueryHiddenEdges(_ context.Context, sender string) ([]models.HiddenEdge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var edges []models.HiddenEdge
	for _, edge := range m.hidden {
		if edge.SenderProfileID == sender {
			edges = append(edges, edge)
		}
	}
	return edges, nil
}

func (m *memoryStore) GetConversation(_ context.Context, conversationID string) (*models.Conversation, []models.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conversation, ok := m.conversations[conversationID]
	if !ok {
		return nil, nil, nil
	}
	copied := conversation
	return &copied, append([]models.Participant(nil), m.participants[conversationID]...), nil
}

func (m *memoryStore) PutConversation(_ context.Context, conversation models.Conversation, participants []models.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[conversation.ConversationID] = conversation
	m.participants[conversation.ConversationID] = participants
	return nil
}

func (m *memoryStore) SetConversationStatus(_ context.Context, conversationID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conversation, ok := m.conversations[conversationID]; ok {
		conversation.Status = status
		m.conversations[conversationID] = conversation
	}
	return nil
}

func (m *memoryStore) FindConversationBetween(_ context.Context, profileA, profileB string) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, participants := range m.participants {
		foundA, foundB := false, false
		for _, participant := range participants {
			if participant.ProfileID == profileA {
				foundA = true
			}
			if participant.ProfileID == profileB {
				foundB = true
			}
		}
		if foundA && foundB {
			conversation := m.conversations[id]
			return &conversation, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) SetConversationCallRoom(_ context.Context, conversationID, roomID, calleeProfileID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conversation, ok := m.conversations[conversationID]
	if !ok || conversation.Status != models.ConversationAccepted {
		return false, nil
	}
	calleeCallable := false
	for _, participant := range m.participants[conversationID] {
		if participant.ProfileID == calleeProfileID && participant.IsCallable {
			calleeCallable = true
		}
	}
	if !calleeCallable {
		return false, nil
	}
	if profile, ok := m.profiles[calleeProfileID]; !ok || !profile.IsCallable {
		return false, nil
	}
	conversation.CallRoomID = roomID
	m.conversations[conversationID] = conversation
	return true, nil
}

func (m *memoryStore) UpdateParticipantCallable(_ context.Context, conversationID, profileID string, isCallable bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	participants := m.participants[conversationID]
	for i := range participants {
		if participants[i].ProfileID == profileID {
			participants[i].IsCallable = isCallable
		}
	}
	return nil
}

func (m *memoryStore) InsertMessage(_ context.Context, message models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[message.ConversationID] = append(m.messages[message.ConversationID], message)
	return nil
}

func (m *memoryStore) QueryMessages(_ context.Context, conversationID string, limit int32) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	messages := append([]models.Message(nil), m.messages[conversationID]...)
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt > messages[j].CreatedAt
	})
	if int32(len(messages)) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

func (m *memoryStore) MarkMessagesRead(_ context.Context, conversationID, readerProfileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	messages := m.messages[conversationID]
	for i := range messages {
		if messages[i].SenderProfileID != readerProfileID {
			messages[i].IsUnread = false
		}
	}
	return nil
}

// recordingNotifier captures every event handed to the notifier.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notifiedEvent
}

type notifiedEvent struct {
	ProfileID string
	Event     models.RealtimeEvent
}

func (n *recordingNotifier) Notify(_ context.Context, profileID string, event models.RealtimeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifiedEvent{ProfileID: profileID, Event: event})
}

func (n *recordingNotifier) eventsOfType(eventType string) []notifiedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var matching []notifiedEvent
	for _, event := range n.events {
		if event.Event.Type == eventType {
			matching = append(matching, event)
		}
	}
	return matching
}

// recordingAccepter counts conversation-acceptance invocations per pair.
type recordingAccepter struct {
	mu    sync.Mutex
	pairs []string
}

func (a *recordingAccepter) AcceptConversationBetween(_ context.Context, profileA, profileB string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pairs = append(a.pairs, models.PairKey(profileA, profileB))
	return nil
}
