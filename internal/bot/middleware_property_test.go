// Package bot provides middleware for the Telegram bot.
// Property-based tests for the admin and whitelist checks.
package bot

import (
	"testing"

	"pgregory.net/rapid"

	"bonus-points-bot/internal/config"
)

// TestAdminPermissionCheckProperty checks that a user is recognized as admin
// if and only if their ID appears in the configured admin list.
func TestAdminPermissionCheckProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numAdmins := rapid.IntRange(1, 10).Draw(t, "numAdmins")
		adminIDs := make([]int64, numAdmins)
		for i := 0; i < numAdmins; i++ {
			adminIDs[i] = rapid.Int64Range(1, 1000000000).Draw(t, "adminID")
		}

		cfg := &config.Config{
			Admin: config.AdminConfig{
				IDs: adminIDs,
			},
		}

		userID := rapid.Int64Range(1, 1000000000).Draw(t, "userID")

		isAdmin := cfg.IsAdmin(userID)

		expectedIsAdmin := false
		for _, id := range adminIDs {
			if id == userID {
				expectedIsAdmin = true
				break
			}
		}

		if isAdmin != expectedIsAdmin {
			t.Fatalf("Admin check mismatch: userID=%d, adminIDs=%v, expected=%v, got=%v",
				userID, adminIDs, expectedIsAdmin, isAdmin)
		}
	})
}

// TestKnownAdminAlwaysRecognizedProperty checks that every configured admin
// passes the check.
func TestKnownAdminAlwaysRecognizedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numAdmins := rapid.IntRange(1, 10).Draw(t, "numAdmins")
		adminIDs := make([]int64, numAdmins)
		for i := 0; i < numAdmins; i++ {
			adminIDs[i] = rapid.Int64Range(1, 1000000000).Draw(t, "adminID")
		}

		cfg := &config.Config{
			Admin: config.AdminConfig{
				IDs: adminIDs,
			},
		}

		adminIndex := rapid.IntRange(0, numAdmins-1).Draw(t, "adminIndex")
		knownAdminID := adminIDs[adminIndex]

		if !cfg.IsAdmin(knownAdminID) {
			t.Fatalf("Known admin %d not recognized (adminIDs=%v)", knownAdminID, adminIDs)
		}
	})
}

// TestWhitelistEnforcementProperty checks that a chat is allowed if and only
// if it appears in the whitelist, except that an empty whitelist allows all.
func TestWhitelistEnforcementProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numChats := rapid.IntRange(0, 10).Draw(t, "numChats")
		chatIDs := make([]int64, numChats)
		for i := 0; i < numChats; i++ {
			chatIDs[i] = rapid.Int64Range(-1000000000, -1).Draw(t, "chatID")
		}

		cfg := &config.Config{
			Whitelist: config.WhitelistConfig{
				Chats: chatIDs,
			},
		}

		chatID := rapid.Int64Range(-1000000000, -1).Draw(t, "testChatID")

		allowed := cfg.IsChatAllowed(chatID)

		expectedAllowed := numChats == 0
		for _, id := range chatIDs {
			if id == chatID {
				expectedAllowed = true
				break
			}
		}

		if allowed != expectedAllowed {
			t.Fatalf("Whitelist check mismatch: chatID=%d, whitelist=%v, expected=%v, got=%v",
				chatID, chatIDs, expectedAllowed, allowed)
		}
	})
}
