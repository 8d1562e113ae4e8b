package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFriendshipFlow walks the whole happy path: two users register, one
// invites the other, the invitation is accepted, posts show up in the feed,
// and the friends can exchange messages.
func TestFriendshipFlow(t *testing.T) {
	_, app := newTestServer(t)

	aliceToken := signupAndSignin(t, app, "alice")
	bobToken := signupAndSignin(t, app, "bob")

	// alice invites bob
	var invitation struct {
		ID uint `json:"id"`
	}
	resp := doJSON(t, app, http.MethodPost, "/api/invitations/bob", aliceToken, nil, &invitation)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotZero(t, invitation.ID)

	// inviting again is rejected
	resp = doJSON(t, app, http.MethodPost, "/api/invitations/bob", aliceToken, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// messaging before acceptance is rejected
	resp = doJSON(t, app, http.MethodPost, "/api/messages/bob", aliceToken,
		map[string]any{"text": "too early"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// bob sees the invitation in his inbox
	var inbox []struct {
		ID     uint `json:"id"`
		Sender struct {
			Username string `json:"username"`
		} `json:"sender"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/invitations/", bobToken, nil, &inbox)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, inbox, 1)
	assert.Equal(t, "alice", inbox[0].Sender.Username)

	// alice cannot accept an invitation addressed to bob
	acceptPath := fmt.Sprintf("/api/invitations/%d/accept", invitation.ID)
	resp = doJSON(t, app, http.MethodPost, acceptPath, aliceToken, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// bob accepts
	resp = doJSON(t, app, http.MethodPost, acceptPath, bobToken, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// both see each other as friends
	var friends []struct {
		Username string `json:"username"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/users/alice/friends", aliceToken, nil, &friends)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].Username)

	// alice posts; the post appears in bob's feed because accepting
	// subscribed bob to alice
	resp = doJSON(t, app, http.MethodPost, "/api/posts/", aliceToken,
		map[string]any{"header": "hello", "text": "first post"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var feed []struct {
		Header   string `json:"header"`
		Username string `json:"username"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/users/bob/feed", bobToken, nil, &feed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, feed, 1)
	assert.Equal(t, "hello", feed[0].Header)
	assert.Equal(t, "alice", feed[0].Username)

	// friends can message each other
	resp = doJSON(t, app, http.MethodPost, "/api/messages/alice", bobToken,
		map[string]any{"text": "hi alice"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var received []struct {
		Sender string `json:"sender"`
		Text   string `json:"text"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/messages/received", aliceToken, nil, &received)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, received, 1)
	assert.Equal(t, "bob", received[0].Sender)
	assert.Equal(t, "hi alice", received[0].Text)

	// unfriending closes the messaging channel again
	resp = doJSON(t, app, http.MethodDelete, "/api/friends/bob", aliceToken, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/messages/alice", bobToken,
		map[string]any{"text": "still there?"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// and empties the feed in both directions
	resp = doJSON(t, app, http.MethodGet, "/api/users/bob/feed", bobToken, nil, &feed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, feed)
}

func TestSignupValidationAndConflicts(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"username": "alice", "email": "alice@example.com", "password": "pw",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	signupAndSignin(t, app, "alice")

	var body struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	resp = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"username": "alice", "email": "other@example.com", "password": "pw12345",
	}, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "CONFLICT", body.Code)
}

func TestSigninInvalidCredentials(t *testing.T) {
	_, app := newTestServer(t)
	signupAndSignin(t, app, "alice")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signin", "", map[string]any{
		"username": "alice", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/signin", "", map[string]any{
		"username": "ghost", "password": "pw12345",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDeletePostOwnership(t *testing.T) {
	_, app := newTestServer(t)

	aliceToken := signupAndSignin(t, app, "alice")
	bobToken := signupAndSignin(t, app, "bob")

	var post struct {
		ID uint `json:"id"`
	}
	resp := doJSON(t, app, http.MethodPost, "/api/posts/", aliceToken,
		map[string]any{"header": "mine", "text": "body"}, &post)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotZero(t, post.ID)

	deletePath := fmt.Sprintf("/api/posts/%d", post.ID)
	resp = doJSON(t, app, http.MethodDelete, deletePath, bobToken, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, deletePath, aliceToken, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []any
	resp = doJSON(t, app, http.MethodGet, "/api/users/alice/posts", aliceToken, nil, &posts)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, posts)
}

func TestAdminUserListing(t *testing.T) {
	_, app := newTestServer(t)

	// a regular user is not allowed in
	userToken := signupAndSignin(t, app, "alice")
	resp := doJSON(t, app, http.MethodGet, "/api/admin/users", userToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// an admin is
	resp = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"username": "root", "email": "root@example.com",
		"password": "pw12345", "roles": []string{"admin"},
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Token string `json:"token"`
	}
	resp = doJSON(t, app, http.MethodPost, "/api/auth/signin", "", map[string]any{
		"username": "root", "password": "pw12345",
	}, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []struct {
		Username string `json:"username"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/admin/users", result.Token, nil, &users)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, users, 2)
}
