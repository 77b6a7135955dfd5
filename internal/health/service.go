package health

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const checkTimeout = 10 * time.Second

// Broadcaster defines the interface for sending WebSocket messages.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

type component struct {
	item  HealthItem
	check Checker
}

// Service tracks the health of registered components.
// All state is in-memory and resets on application restart.
type Service struct {
	mu          sync.RWMutex
	components  []*component
	byID        map[string]*component
	broadcaster Broadcaster
	now         func() time.Time
	logger      zerolog.Logger
}

// NewService creates a new health service.
func NewService(logger zerolog.Logger) *Service {
	return &Service{
		byID:   make(map[string]*component),
		now:    time.Now,
		logger: logger.With().Str("component", "health").Logger(),
	}
}

// SetBroadcaster sets the WebSocket broadcaster for real-time updates.
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = b
}

// Register adds a component with OK status. Registering an existing id
// replaces its checker.
func (s *Service) Register(id, name string, check Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.byID[id]; ok {
		c.item.Name = name
		c.check = check
		return
	}

	c := &component{
		item:  HealthItem{ID: id, Name: name, Status: StatusOK},
		check: check,
	}
	s.components = append(s.components, c)
	s.byID[id] = c

	s.logger.Debug().Str("id", id).Str("name", name).Msg("Registered health item")
}

// CheckAll runs every checker and records the results.
func (s *Service) CheckAll(ctx context.Context) error {
	s.mu.RLock()
	components := make([]*component, len(s.components))
	copy(components, s.components)
	s.mu.RUnlock()

	for _, c := range components {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		result := c.check(checkCtx)
		cancel()
		s.record(c, result)
	}
	return nil
}

func (s *Service) record(c *component, result Result) {
	s.mu.Lock()
	previous := c.item.Status
	c.item.Status = result.Status
	c.item.Message = result.Message
	if result.Status != previous {
		now := s.now()
		c.item.Timestamp = &now
	}
	item := c.item
	broadcaster := s.broadcaster
	s.mu.Unlock()

	if result.Status == previous {
		return
	}

	event := s.logger.Info()
	if result.Status != StatusOK {
		event = s.logger.Warn()
	}
	event.Str("id", item.ID).
		Str("status", string(item.Status)).
		Str("previous", string(previous)).
		Str("message", item.Message).
		Msg("Health status changed")

	if broadcaster != nil {
		if err := broadcaster.Broadcast(EventHealthUpdate, item); err != nil {
			s.logger.Debug().Err(err).Msg("Failed to broadcast health update")
		}
	}
}

// GetAll returns every component in registration order.
func (s *Service) GetAll() HealthResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := HealthResponse{Items: make([]HealthItem, 0, len(s.components))}
	for _, c := range s.components {
		resp.Items = append(resp.Items, c.item)
		if c.item.Status != StatusOK {
			resp.HasIssues = true
		}
	}
	return resp
}

// Get returns a single component.
func (s *Service) Get(id string) (HealthItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return HealthItem{}, false
	}
	return c.item, true
}
