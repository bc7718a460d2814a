package service

// Тесты сервисного слоя комментариев (internal/service/comments.go).
//
// Проверяем:
//  - валидацию входов (гейт аутентификации, пустой текст, лимит длины);
//  - маппинг ошибок storage -> service (ParentNotFound / MaxDepthExceeded /
//    NotFound / Internal);
//  - нормализацию текста (TrimSpace) и корректность аргументов стораджа;
//  - happy-path каждого метода.

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/avikulina/kinolenta/internal/models"
	"github.com/avikulina/kinolenta/internal/storage"
)

// mustComment — быстрый хелпер для сборки комментария.
func mustComment(postID uuid.UUID, parentID, username, content string) *models.Comment {
	return &models.Comment{
		ID:             "507f1f77bcf86cd799439011",
		PostID:         postID,
		ParentID:       parentID,
		AuthorID:       uuid.New(),
		AuthorUsername: username,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestService_CreateComment_Validation(t *testing.T) {
	s, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	// без пользователя.
	_, err := s.CreateComment(context.Background(), CreateCommentInput{
		PostID: uuid.New(), Actor: uuid.Nil, AuthorUsername: "x", Content: "x",
	})
	require.ErrorIs(t, err, ErrUnauthenticated)

	// content -> TrimSpace -> пусто.
	_, err = s.CreateComment(context.Background(), CreateCommentInput{
		PostID: uuid.New(), Actor: uuid.New(), AuthorUsername: "u", Content: "   ",
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	// пустой postID.
	_, err = s.CreateComment(context.Background(), CreateCommentInput{
		PostID: uuid.Nil, Actor: uuid.New(), AuthorUsername: "u", Content: "ok",
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	// превышен лимит длины (лимит в конфиге теста — 500 рун).
	_, err = s.CreateComment(context.Background(), CreateCommentInput{
		PostID: uuid.New(), Actor: uuid.New(), AuthorUsername: "u",
		Content: strings.Repeat("ы", 501),
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_CreateComment_StorageErrors(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	in := CreateCommentInput{
		PostID: uuid.New(), Actor: uuid.New(), AuthorUsername: "u", Content: "ok",
	}

	// ParentNotFound
	ms.EXPECT().
		CreateComment(gomock.Any(), gomock.Any()).
		Return(nil, storage.ErrParentNotFound)
	_, err := s.CreateComment(context.Background(), CreateCommentInput{
		PostID: in.PostID, ParentID: "507f1f77bcf86cd799439011",
		Actor: in.Actor, AuthorUsername: in.AuthorUsername, Content: in.Content,
	})
	require.ErrorIs(t, err, ErrParentNotFound)

	// MaxDepthExceeded
	ms.EXPECT().
		CreateComment(gomock.Any(), gomock.Any()).
		Return(nil, storage.ErrMaxDepthExceeded)
	_, err = s.CreateComment(context.Background(), CreateCommentInput{
		PostID: in.PostID, ParentID: "507f1f77bcf86cd799439012",
		Actor: in.Actor, AuthorUsername: in.AuthorUsername, Content: in.Content,
	})
	require.ErrorIs(t, err, ErrMaxDepthExceeded)

	// Internal (любая иная)
	ms.EXPECT().
		CreateComment(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("db down"))
	_, err = s.CreateComment(context.Background(), in)
	require.ErrorIs(t, err, ErrInternal)
}

// Happy-path: корневой комментарий, проверяем TrimSpace и аргументы стораджа.
func TestService_CreateComment_OK_Root(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	postID := uuid.New()
	uid := uuid.New()

	want := mustComment(postID, "", "alice", "hello")

	ms.EXPECT().
		CreateComment(gomock.Any(), gomock.AssignableToTypeOf(models.Comment{})).
		DoAndReturn(func(_ context.Context, c models.Comment) (*models.Comment, error) {
			require.Equal(t, postID, c.PostID)
			require.Equal(t, "", c.ParentID)
			require.Equal(t, uid, c.AuthorID)
			require.Equal(t, "alice", c.AuthorUsername)
			require.Equal(t, "hello", c.Content)
			return want, nil
		})

	got, err := s.CreateComment(context.Background(), CreateCommentInput{
		PostID: postID, Actor: uid, AuthorUsername: "alice", Content: "  hello  ",
	})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// Happy-path: ответ (ParentID задан).
func TestService_CreateComment_OK_Reply(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	postID := uuid.New()
	parentID := "507f1f77bcf86cd799439011"
	uid := uuid.New()

	want := mustComment(postID, parentID, "bob", "reply")

	ms.EXPECT().
		CreateComment(gomock.Any(), gomock.AssignableToTypeOf(models.Comment{})).
		DoAndReturn(func(_ context.Context, c models.Comment) (*models.Comment, error) {
			require.Equal(t, parentID, c.ParentID)
			require.Equal(t, uid, c.AuthorID)
			require.Equal(t, "reply", c.Content)
			return want, nil
		})

	got, err := s.CreateComment(context.Background(), CreateCommentInput{
		PostID: postID, ParentID: parentID, Actor: uid,
		AuthorUsername: "bob", Content: "reply",
	})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestService_DeleteComment_Validation(t *testing.T) {
	s, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	_, err := s.DeleteComment(context.Background(), uuid.Nil, "42")
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = s.DeleteComment(context.Background(), uuid.New(), "   ")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_DeleteComment_Mapping(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	uid := uuid.New()

	// NotFound
	ms.EXPECT().DeleteComment(gomock.Any(), "42").Return(int64(0), storage.ErrNotFound)
	_, err := s.DeleteComment(context.Background(), uid, "42")
	require.ErrorIs(t, err, ErrNotFound)

	// Internal
	ms.EXPECT().DeleteComment(gomock.Any(), "42").Return(int64(0), errors.New("db down"))
	_, err = s.DeleteComment(context.Background(), uid, "42")
	require.ErrorIs(t, err, ErrInternal)
}

// Happy-path: удаление корня возвращает число удалённых узлов (1 + ответы).
func TestService_DeleteComment_OK(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	ms.EXPECT().DeleteComment(gomock.Any(), "55").Return(int64(4), nil)

	removed, err := s.DeleteComment(context.Background(), uuid.New(), "55")
	require.NoError(t, err)
	require.EqualValues(t, 4, removed)
}

func TestService_FetchThread_Validation(t *testing.T) {
	s, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	_, err := s.FetchThread(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_FetchThread_MappingAndOK(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	postID := uuid.New()

	ms.EXPECT().
		FetchThread(gomock.Any(), postID).
		Return(nil, errors.New("db down"))
	_, err := s.FetchThread(context.Background(), postID)
	require.ErrorIs(t, err, ErrInternal)

	want := &models.Thread{
		Roots:   []models.Comment{*mustComment(postID, "", "a", "root")},
		Replies: []models.Comment{*mustComment(postID, "507f1f77bcf86cd799439011", "b", "reply")},
	}

	ms.EXPECT().FetchThread(gomock.Any(), postID).Return(want, nil)

	got, err := s.FetchThread(context.Background(), postID)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
