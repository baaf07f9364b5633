package state

// Storage keys. They match the layout earlier releases wrote so existing
// data keeps loading.
const (
	KeyLanded      = "@TrickaDexApp_progress"
	KeyFavorites   = "@TrickaDexApp_favorites"
	KeyPreferences = "@TrickaDexApp_preferences"
	KeyUserName    = "userName"
)
