package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nic96/minipress/internal/model"
	"github.com/nic96/minipress/internal/repository/sqlite"
	"github.com/nic96/minipress/internal/service"
)

func newPostHandler(t *testing.T) (*PostHandler, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewPostHandler(service.NewPostService(db.Posts()), testLogger()), db
}

func storedUser(t *testing.T, db *sqlite.DB, username string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{Username: username, Role: role}
	require.NoError(t, db.Users().Create(context.Background(), user))
	return user
}

// withUser puts the user into the request context the way the identity
// middleware would.
func withUser(t *testing.T, r *http.Request, user *model.User) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	seen := make(chan *http.Request, 1)

	identity := testIdentity(t)
	login := httptest.NewRecorder()
	require.NoError(t, identity.Remember(login, user))

	req := httptest.NewRequest(r.Method, r.URL.String(), r.Body)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	identity.RequireIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r
	})).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	return <-seen
}

func TestPostHandlerCreate(t *testing.T) {
	h, db := newPostHandler(t)
	author := storedUser(t, db, "author", model.RoleAuthor)

	req := httptest.NewRequest(http.MethodPost, "/post", jsonBody(t, model.PostRequest{
		Title:   "My First Post",
		Content: "hello world",
	}))
	req = withUser(t, req, author)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var post model.Post
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&post))
	assert.Equal(t, "my-first-post", post.Slug)
	assert.Equal(t, author.ID, post.UserID)
}

func TestPostHandlerCreateRoleDenied(t *testing.T) {
	h, db := newPostHandler(t)
	subscriber := storedUser(t, db, "reader", model.RoleSubscriber)

	req := httptest.NewRequest(http.MethodPost, "/post", jsonBody(t, model.PostRequest{
		Title:   "Not Allowed",
		Content: "x",
	}))
	req = withUser(t, req, subscriber)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostHandlerListIsPublic(t *testing.T) {
	h, db := newPostHandler(t)
	author := storedUser(t, db, "author", model.RoleAuthor)

	post := &model.Post{UserID: author.ID, Title: "t", Slug: "t", Content: "c"}
	require.NoError(t, db.Posts().Create(context.Background(), post))

	rec := httptest.NewRecorder()
	h.HandleList(rec, httptest.NewRequest(http.MethodGet, "/post", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var posts []model.Post
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&posts))
	assert.Len(t, posts, 1)
}

func TestPostHandlerGetInvalidID(t *testing.T) {
	h, _ := newPostHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/post/garbage", nil)
	req.SetPathValue("id", "garbage")
	h.HandleGet(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Invalid Post ID", body.Message)
}

func TestPostHandlerUpdateByStranger(t *testing.T) {
	h, db := newPostHandler(t)
	owner := storedUser(t, db, "owner", model.RoleAuthor)
	stranger := storedUser(t, db, "stranger", model.RoleAuthor)

	post := &model.Post{UserID: owner.ID, Title: "t", Slug: "t", Content: "c"}
	require.NoError(t, db.Posts().Create(context.Background(), post))

	req := httptest.NewRequest(http.MethodPut, "/post/"+post.ID.String(), jsonBody(t, model.PostRequest{
		Title: "hijacked", Content: "x",
	}))
	req = withUser(t, req, stranger)
	req.SetPathValue("id", post.ID.String())

	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostHandlerDeleteByOwner(t *testing.T) {
	h, db := newPostHandler(t)
	owner := storedUser(t, db, "owner", model.RoleAuthor)

	post := &model.Post{UserID: owner.ID, Title: "t", Slug: "t", Content: "c"}
	require.NoError(t, db.Posts().Create(context.Background(), post))

	req := httptest.NewRequest(http.MethodDelete, "/post/"+post.ID.String(), nil)
	req = withUser(t, req, owner)
	req.SetPathValue("id", post.ID.String())

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body MessageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Successfully deleted 1 record(s)", body.Message)
}
