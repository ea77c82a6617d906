// Package model defines the data models for the bonus points bot.
package model

import "time"

// User represents a Telegram user account in the bonus points system.
// Rows are created lazily on first write; bp_balance may go negative.
type User struct {
	UserID    int64 `db:"user_id"`
	VIPStatus bool  `db:"vip_status"`
	BPBalance int64 `db:"bp_balance"`
}

// Completion represents a per-(user, activity, activity-day) completion flag.
// AwardedPoints records the exact BP granted when the activity was completed,
// so uncompleting subtracts the same amount even if the VIP or event flags
// changed in between.
type Completion struct {
	UserID        int64      `db:"user_id"`
	ActivityID    string     `db:"activity_id"`
	ActivityDay   string     `db:"activity_day"`
	Completed     bool       `db:"completed"`
	CompletedAt   *time.Time `db:"completed_at"`
	AwardedPoints int64      `db:"awarded_points"`
}

// Setting is a global key/value configuration row.
type Setting struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// DashboardLocation records where a user's live dashboard message sits.
// Invariant: at most one row per user.
type DashboardLocation struct {
	UserID        int64     `db:"user_id"`
	ChannelID     int64     `db:"channel_id"`
	MessageID     int64     `db:"message_id"`
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

// Setting keys used by the bot.
const (
	SettingDoubleBPEvent = "double_bp_event"
)
