package redis

const (
	// KeyPrefixBookmark is the prefix for bookmark keys
	KeyPrefixBookmark = "smartmarks:bookmark:"
	// KeyPrefixUser is the prefix for user keys
	KeyPrefixUser = "smartmarks:user:"
	// KeyPrefixUserEmail is the prefix for email -> user id lookup keys
	KeyPrefixUserEmail = "smartmarks:user:email:"
	// KeyPrefixSession is the prefix for session token keys
	KeyPrefixSession = "smartmarks:session:"
	// KeyPrefixChanges is the prefix for per-user change notification channels
	KeyPrefixChanges = "smartmarks:changes:"
	// KeyAllUsers is the key for the set of all user IDs
	KeyAllUsers = "smartmarks:users:all"
)

// BookmarkKey returns the Redis key for a bookmark by ID
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// UserKey returns the Redis key for a user by ID
func UserKey(id string) string {
	return KeyPrefixUser + id
}

// UserEmailKey returns the email lookup key for a user
func UserEmailKey(email string) string {
	return KeyPrefixUserEmail + email
}

// UserBookmarksKey returns the key of the per-user bookmark index
// (a zset of bookmark IDs scored by creation time).
func UserBookmarksKey(userID string) string {
	return KeyPrefixUser + userID + ":bookmarks"
}

// SessionKey returns the Redis key for a session token
func SessionKey(token string) string {
	return KeyPrefixSession + token
}

// ChangeChannel returns the pub/sub channel carrying one user's
// bookmark change notifications.
func ChangeChannel(userID string) string {
	return KeyPrefixChanges + userID
}

// AllUsersKey returns the key for the set of all user IDs
func AllUsersKey() string {
	return KeyAllUsers
}
