package bot

import "sync"

// step описывает шаг диалога оформления заказа.
type step int

const (
	stepIdle step = iota
	stepAddress
	stepDate
	stepTime
	stepConfirm
)

// session хранит состояние диалога одного чата.
// Заменяет FSM-контекст: адрес и слот собираются по шагам,
// фильтр и страница нужны панели администратора.
type session struct {
	Step    step
	Address string
	Date    string // YYYY-MM-DD
	Time    string // HH:MM

	FilterStatus string // "pending" или "" для всех заявок
	Page         int
}

// sessionStore — потокобезопасное хранилище сессий по chat id.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[int64]*session)}
}

// Get возвращает сессию чата, создавая её при первом обращении.
func (s *sessionStore) Get(chatID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &session{}
		s.sessions[chatID] = sess
	}
	return sess
}

// Reset сбрасывает диалог оформления, не трогая состояние панели администратора.
func (s *sessionStore) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return
	}
	sess.Step = stepIdle
	sess.Address = ""
	sess.Date = ""
	sess.Time = ""
}
