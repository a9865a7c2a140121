package service

import (
	"context"
	"fmt"
	"time"

	"booklog-be/internal/entity"
	"booklog-be/internal/pkg/lock"
	"booklog-be/internal/pkg/logger"
	"booklog-be/internal/repository/specification"
	"booklog-be/internal/repository/unitofwork"
	"booklog-be/pkg/events"

	"github.com/google/uuid"
)

const guestLockTTL = 30 * time.Second

type IGuestService interface {
	// Enter returns the shared guest identity, creating and seeding the guest
	// account on first use. Concurrent first calls create exactly one account
	// with exactly one set of demo books.
	Enter(ctx context.Context) (entity.Identity, error)
}

type GuestConfig struct {
	Email    string
	FullName string
}

type demoBook struct {
	title         string
	author        string
	publishedDate string
	memos         []string
}

var guestDemoBooks = []demoBook{
	{
		title:         "吾輩は猫である",
		author:        "夏目漱石",
		publishedDate: "1905-10-06",
		memos: []string{
			"猫の視点で人間社会を風刺している。",
			"苦沙弥先生の書斎の場面が印象的。",
		},
	},
	{
		title:         "羅生門",
		author:        "芥川龍之介",
		publishedDate: "1915-11-01",
		memos: []string{
			"下人の心理の変化を追いながら読む。",
		},
	},
}

type guestService struct {
	uowFactory       unitofwork.RepositoryFactory
	locker           lock.Locker
	publisherService IPublisherService
	logger           logger.ILogger
	cfg              GuestConfig
}

func NewGuestService(
	uowFactory unitofwork.RepositoryFactory,
	locker lock.Locker,
	publisherService IPublisherService,
	log logger.ILogger,
	cfg GuestConfig,
) IGuestService {
	return &guestService{
		uowFactory:       uowFactory,
		locker:           locker,
		publisherService: publisherService,
		logger:           log,
		cfg:              cfg,
	}
}

func (s *guestService) Enter(ctx context.Context) (entity.Identity, error) {
	// Fast path: the guest exists, and since it is created and seeded in a
	// single transaction it is also fully seeded.
	existing, err := s.uowFactory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByEmail{Email: s.cfg.Email})
	if err != nil {
		return entity.Anonymous(), err
	}
	if existing != nil {
		return s.identityOf(existing)
	}

	release, err := s.locker.Acquire(ctx, "guest:"+s.cfg.Email, guestLockTTL)
	if err != nil {
		return entity.Anonymous(), fmt.Errorf("acquire guest lock: %w", err)
	}
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return entity.Anonymous(), err
	}
	defer uow.Rollback()

	now := time.Now()
	guest := &entity.User{
		Id:        uuid.New(),
		Email:     s.cfg.Email,
		FullName:  s.cfg.FullName,
		IsGuest:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The unique email index is the last line of defence when the lock is
	// not shared between processes.
	inserted, err := uow.UserRepository().CreateIfAbsent(ctx, guest)
	if err != nil {
		return entity.Anonymous(), fmt.Errorf("create guest: %w", err)
	}

	if !inserted {
		existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: s.cfg.Email})
		if err != nil {
			return entity.Anonymous(), err
		}
		if existing == nil {
			return entity.Anonymous(), fmt.Errorf("guest %s vanished after conflict", s.cfg.Email)
		}
		if err := uow.Commit(); err != nil {
			return entity.Anonymous(), err
		}
		return s.identityOf(existing)
	}

	seeded, err := s.seed(ctx, uow, guest.Id)
	if err != nil {
		return entity.Anonymous(), fmt.Errorf("seed guest books: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return entity.Anonymous(), err
	}

	s.logger.Info("GUEST", "Guest account created", map[string]interface{}{
		"user_id": guest.Id.String(),
		"books":   seeded,
	})
	s.publisherService.Publish(ctx, events.New(EventGuestSeeded, map[string]interface{}{
		"user_id": guest.Id.String(),
		"books":   seeded,
	}))

	return entity.IdentityOf(guest.Id), nil
}

func (s *guestService) seed(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (int, error) {
	now := time.Now()
	for _, demo := range guestDemoBooks {
		published, err := time.Parse("2006-01-02", demo.publishedDate)
		if err != nil {
			return 0, err
		}

		book := &entity.Book{
			Title:         demo.title,
			Author:        demo.author,
			PublishedDate: &published,
			UserId:        userId,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		memos := make([]*entity.Memo, 0, len(demo.memos))
		for _, content := range demo.memos {
			memos = append(memos, &entity.Memo{Content: content, CreatedAt: now})
		}

		if err := uow.BookRepository().CreateWithMemos(ctx, book, memos); err != nil {
			return 0, err
		}
	}
	return len(guestDemoBooks), nil
}

func (s *guestService) identityOf(user *entity.User) (entity.Identity, error) {
	if !user.IsGuest {
		return entity.Anonymous(), fmt.Errorf("guest email %s belongs to a registered account", user.Email)
	}
	return entity.IdentityOf(user.Id), nil
}
