package study

import (
	"fmt"
	"net/url"
)

// Fixed import settings for gamebook chapters.
const (
	OrientationDefault = "default"
	VariantFromPos     = "fromPosition"
	ModeGamebook       = "gamebook"
)

// ImportRequest is the form posted to a study's PGN import endpoint.
// The caller supplies the study ID and access token.
type ImportRequest struct {
	Name        string `json:"name"`
	PGN         string `json:"pgn"`
	Orientation string `json:"orientation"`
	Variant     string `json:"variant"`
	Mode        string `json:"mode"`
}

// NewImportRequest wraps a document whose first chapter is firstNumber.
func NewImportRequest(document string, firstNumber int) ImportRequest {
	return ImportRequest{
		Name:        fmt.Sprintf("Puzzle %d", firstNumber),
		PGN:         document,
		Orientation: OrientationDefault,
		Variant:     VariantFromPos,
		Mode:        ModeGamebook,
	}
}

// Form encodes the request as url form values.
func (r ImportRequest) Form() url.Values {
	return url.Values{
		"name":        {r.Name},
		"pgn":         {r.PGN},
		"orientation": {r.Orientation},
		"variant":     {r.Variant},
		"mode":        {r.Mode},
	}
}

// ImportURL returns the import endpoint of a study.
func ImportURL(studyID string) string {
	return fmt.Sprintf("https://lichess.org/api/study/%s/import-pgn", url.PathEscape(studyID))
}

// AuthorizationHeader returns the bearer value for an access token.
func AuthorizationHeader(token string) string {
	return "Bearer " + token
}

// PreparedImport is a ready-to-send import call for one study. Sending
// it is left to the caller.
type PreparedImport struct {
	URL           string `json:"url"`
	Authorization string `json:"authorization,omitempty"`
	ContentType   string `json:"contentType"`
	Body          string `json:"body"`
}

// Prepare addresses r to a study. An empty token leaves the
// authorization unset.
func (r ImportRequest) Prepare(studyID, token string) PreparedImport {
	p := PreparedImport{
		URL:         ImportURL(studyID),
		ContentType: "application/x-www-form-urlencoded",
		Body:        r.Form().Encode(),
	}
	if token != "" {
		p.Authorization = AuthorizationHeader(token)
	}
	return p
}
