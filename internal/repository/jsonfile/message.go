// Package jsonfile implements the message store on top of a single JSON
// file. It exists for the low-traffic messages endpoints where a database
// table would be overkill; the whole file is read and rewritten per
// operation under a repository-level lock.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mbeckett/carworth/internal/domain"
)

type storedMessage struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// MessageRepository implements domain.MessageRepository backed by a JSON
// file on disk. It is safe for concurrent use within one process.
type MessageRepository struct {
	mu   sync.Mutex
	path string
}

// NewMessageRepository creates a repository persisting to the given path.
// The file is created on first write.
func NewMessageRepository(path string) *MessageRepository {
	return &MessageRepository{path: path}
}

func (r *MessageRepository) Create(ctx context.Context, content string) (*domain.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	messages, err := r.load()
	if err != nil {
		return nil, err
	}

	msg := storedMessage{ID: uuid.NewString(), Content: content}
	messages[msg.ID] = msg

	if err := r.save(messages); err != nil {
		return nil, err
	}
	return &domain.Message{ID: msg.ID, Content: msg.Content}, nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages, err := r.load()
	if err != nil {
		return nil, err
	}

	msg, ok := messages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Message{ID: msg.ID, Content: msg.Content}, nil
}

func (r *MessageRepository) List(ctx context.Context) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages, err := r.load()
	if err != nil {
		return nil, err
	}

	list := make([]domain.Message, 0, len(messages))
	for _, msg := range messages {
		list = append(list, domain.Message{ID: msg.ID, Content: msg.Content})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// load reads the whole message file. A missing file is an empty store.
func (r *MessageRepository) load() (map[string]storedMessage, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]storedMessage{}, nil
		}
		return nil, fmt.Errorf("read message file: %w", err)
	}

	messages := map[string]storedMessage{}
	if len(data) == 0 {
		return messages, nil
	}
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("decode message file: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) save(messages map[string]storedMessage) error {
	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return fmt.Errorf("encode message file: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write message file: %w", err)
	}
	return nil
}
