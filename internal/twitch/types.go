package twitch

// Helix response types (private - implementation detail)

type clipsResponse struct {
	Data []struct {
		ID              string `json:"id"`
		URL             string `json:"url"`
		BroadcasterID   string `json:"broadcaster_id"`
		BroadcasterName string `json:"broadcaster_name"`
		GameID          string `json:"game_id"`
		Language        string `json:"language"`
		Title           string `json:"title"`
		ViewCount       int64  `json:"view_count"`
		CreatedAt       string `json:"created_at"`
		ThumbnailURL    string `json:"thumbnail_url"`
	} `json:"data"`
	Pagination struct {
		Cursor string `json:"cursor"`
	} `json:"pagination"`
}

type gamesResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

type usersResponse struct {
	Data []struct {
		ID    string `json:"id"`
		Login string `json:"login"`
	} `json:"data"`
}
