package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"investchat-be/internal/dto"
	"investchat-be/internal/entity"
	"investchat-be/internal/repository/contract"
	"investchat-be/internal/repository/specification"
	"investchat-be/internal/repository/unitofwork"
	"investchat-be/pkg/reply"

	"github.com/google/uuid"
)

// In-memory doubles for the repository layer. They interpret only the
// specifications the services actually pass.

type fakeUserRepo struct {
	mu          sync.Mutex
	users       []*entity.User
	resetTokens []*entity.PasswordResetToken
	otpTokens   []*entity.EmailVerificationToken
	refreshToks []*entity.UserRefreshToken
	providers   []*entity.UserProvider

	createErr error
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	clone := *user
	r.users = append(r.users, &clone)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.Id == user.Id {
			clone := *user
			r.users[i] = &clone
			return nil
		}
	}
	return errors.New("user not found")
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if userMatches(u, specs) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.users {
		if userMatches(u, specs) {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByEmail:
			if u.Email != s.Email {
				return false
			}
		case specification.ByCPF:
			if u.CPF != s.CPF {
				return false
			}
		case specification.ByID:
			if u.Id != s.ID {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepo) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	r.resetTokens = append(r.resetTokens, &clone)
	return nil
}

func (r *fakeUserRepo) FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.resetTokens {
		match := true
		for _, spec := range specs {
			if s, ok := spec.(specification.ByToken); ok && t.Token != s.Token {
				match = false
			}
		}
		if match {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) MarkTokenUsed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.resetTokens {
		if t.Id == id {
			t.Used = true
			return nil
		}
	}
	return errors.New("token not found")
}

func (r *fakeUserRepo) CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	r.otpTokens = append(r.otpTokens, &clone)
	return nil
}

func (r *fakeUserRepo) FindEmailVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.otpTokens {
		match := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByToken:
				if t.Token != s.Token {
					match = false
				}
			case specification.UserOwnedBy:
				if t.UserId != s.UserID {
					match = false
				}
			}
		}
		if match {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) DeleteEmailVerificationToken(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.otpTokens {
		if t.Id == id {
			r.otpTokens = append(r.otpTokens[:i], r.otpTokens[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	r.refreshToks = append(r.refreshToks, &clone)
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(ctx context.Context, specs ...specification.Specification) (*entity.UserRefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.refreshToks {
		match := true
		for _, spec := range specs {
			if s, ok := spec.(specification.ByTokenHash); ok && t.TokenHash != s.Hash {
				match = false
			}
		}
		if match {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.refreshToks {
		if t.TokenHash == tokenHash {
			t.Revoked = true
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepo) ActivateUser(ctx context.Context, userId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Id == userId {
			u.Status = entity.UserStatusActive
			u.EmailVerified = true
			return nil
		}
	}
	return errors.New("user not found")
}

func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Id == id {
			u.Status = entity.UserStatus(status)
			return nil
		}
	}
	return errors.New("user not found")
}

func (r *fakeUserRepo) UpdateAvatar(ctx context.Context, userId uuid.UUID, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Id == userId {
			url := avatarURL
			u.AvatarURL = &url
			return nil
		}
	}
	return errors.New("user not found")
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Id == userId {
			h := hash
			u.PasswordHash = &h
			return nil
		}
	}
	return errors.New("user not found")
}

func (r *fakeUserRepo) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *provider
	r.providers = append(r.providers, &clone)
	return nil
}

func (r *fakeUserRepo) FindUserProvider(ctx context.Context, providerName, providerUserId string) (*entity.UserProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.providers {
		if p.ProviderName == providerName && p.ProviderUserId == providerUserId {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations []*entity.Conversation
	touched       []uuid.UUID

	createErr error
}

func (r *fakeConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	clone := *conversation
	r.conversations = append(r.conversations, &clone)
	return nil
}

func (r *fakeConversationRepo) Update(ctx context.Context, conversation *entity.Conversation) error {
	return nil
}

func (r *fakeConversationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conversations {
		if c.Id == id {
			c.IsDeleted = true
			return nil
		}
	}
	return errors.New("conversation not found")
}

func conversationMatches(c *entity.Conversation, specs []specification.Specification) bool {
	if c.IsDeleted {
		return false
	}
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if c.Id != s.ID {
				return false
			}
		case specification.UserOwnedBy:
			if c.UserId != s.UserID {
				return false
			}
		}
	}
	return true
}

func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conversations {
		if conversationMatches(c, specs) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Conversation
	for _, c := range r.conversations {
		if conversationMatches(c, specs) {
			clone := *c
			out = append(out, &clone)
		}
	}
	for _, spec := range specs {
		if s, ok := spec.(specification.OrderBy); ok && s.Field == "updated_at" && s.Desc {
			sort.SliceStable(out, func(i, j int) bool {
				ti, tj := out[i].CreatedAt, out[j].CreatedAt
				if out[i].UpdatedAt != nil {
					ti = *out[i].UpdatedAt
				}
				if out[j].UpdatedAt != nil {
					tj = *out[j].UpdatedAt
				}
				return ti.After(tj)
			})
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeConversationRepo) Touch(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touched = append(r.touched, id)
	return nil
}

type fakeChatMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.ChatMessage

	createErr       error
	failAtCreateNum int // 1-based: fail only that Create call
	createCalls     int
}

func (r *fakeChatMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.createErr != nil && (r.failAtCreateNum == 0 || r.failAtCreateNum == r.createCalls) {
		return r.createErr
	}
	clone := *message
	r.messages = append(r.messages, &clone)
	return nil
}

func (r *fakeChatMessageRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeChatMessageRepo) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*entity.ChatMessage
	for _, m := range r.messages {
		if m.ConversationId != conversationId {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

func messageMatches(m *entity.ChatMessage, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByConversationID:
			if m.ConversationId != s.ConversationID {
				return false
			}
		case specification.ByRole:
			if m.Role != s.Role {
				return false
			}
		}
	}
	return true
}

func (r *fakeChatMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if messageMatches(m, specs) {
			clone := *m
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeChatMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ChatMessage
	for _, m := range r.messages {
		if messageMatches(m, specs) {
			clone := *m
			out = append(out, &clone)
		}
	}
	for _, spec := range specs {
		if s, ok := spec.(specification.OrderBy); ok && s.Field == "created_at" && !s.Desc {
			sort.SliceStable(out, func(i, j int) bool {
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			})
		}
	}
	return out, nil
}

func (r *fakeChatMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeAccessLogRepo struct {
	mu   sync.Mutex
	logs []*entity.AccessLog
}

func (r *fakeAccessLogRepo) Create(ctx context.Context, log *entity.AccessLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *log
	r.logs = append(r.logs, &clone)
	return nil
}

func (r *fakeAccessLogRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AccessLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.AccessLog, len(r.logs))
	copy(out, r.logs)
	return out, nil
}

func (r *fakeAccessLogRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.logs)), nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *notification
	r.notifications = append(r.notifications, &clone)
	return nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.Id == id {
			n.IsRead = true
			return nil
		}
	}
	return errors.New("notification not found")
}

func (r *fakeNotificationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.notifications {
		match := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.UserOwnedBy:
				if n.UserId != s.UserID {
					match = false
				}
			case specification.ByID:
				if n.Id != s.ID {
					match = false
				}
			}
		}
		if match {
			clone := *n
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// fakeUnitOfWork hands out the fake repositories. Begin/Commit/Rollback
// are no-ops; the fakes apply writes immediately.
type fakeUnitOfWork struct {
	users         *fakeUserRepo
	conversations *fakeConversationRepo
	messages      *fakeChatMessageRepo
	accessLogs    *fakeAccessLogRepo
	notifications *fakeNotificationRepo
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		users:         &fakeUserRepo{},
		conversations: &fakeConversationRepo{},
		messages:      &fakeChatMessageRepo{},
		accessLogs:    &fakeAccessLogRepo{},
		notifications: &fakeNotificationRepo{},
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository { return u.users }
func (u *fakeUnitOfWork) ConversationRepository() contract.ConversationRepository {
	return u.conversations
}
func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository { return u.messages }
func (u *fakeUnitOfWork) AccessLogRepository() contract.AccessLogRepository     { return u.accessLogs }
func (u *fakeUnitOfWork) NotificationRepository() contract.NotificationRepository {
	return u.notifications
}

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeReplyGateway struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []*reply.Request
}

func (g *fakeReplyGateway) SendMessage(ctx context.Context, req *reply.Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type fakeUploader struct {
	mu   sync.Mutex
	url  string
	err  error
	keys []string
}

func (u *fakeUploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.keys = append(u.keys, key)
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

type fakeEmailService struct {
	mu         sync.Mutex
	otps       []string
	resetToks  []string
	welcomeTos []string
}

func (m *fakeEmailService) SendOTP(to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.otps = append(m.otps, code)
	return nil
}

func (m *fakeEmailService) SendResetToken(to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetToks = append(m.resetToks, token)
	return nil
}

func (m *fakeEmailService) SendWelcome(to, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomeTos = append(m.welcomeTos, to)
	return nil
}

type fakeLoginPublisher struct {
	mu      sync.Mutex
	records []*dto.LoginRecordedMessage
}

func (p *fakeLoginPublisher) PublishLoginRecorded(ctx context.Context, msg *dto.LoginRecordedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, msg)
	return nil
}
