package model

// Book is a catalog entry. The backend owns it; the client holds
// ephemeral, possibly stale copies fetched per view.
type Book struct {
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	Language        string `json:"language"`
	Version         string `json:"version"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

// Library is a registered library a reader can join.
type Library struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User is a library member as reported by the backend.
type User struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	ContactNumber string `json:"contact_number"`
	LibraryID     int    `json:"library_id"`
}
