package model

type CollectionStatus struct {
	CollectionID string `json:"collection_id"`
	FaceCount    int64  `json:"face_count"`
	CreatedAt    string `json:"created_at"`
	Bucket       string `json:"bucket"`
}

type CleanupFacesResult struct {
	Scanned int      `json:"scanned"`
	Orphans []string `json:"orphans"`
	Deleted int      `json:"deleted"`
}
