package notesdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"
)

// Session carries the two session cookies. It is safe for concurrent use.
type Session struct {
	client *Client

	mu           sync.Mutex
	idToken      string
	refreshToken string
}

// Tokens returns the current cookie values.
func (s *Session) Tokens() (idToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idToken, s.refreshToken
}

func (s *Session) cookies() []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*http.Cookie
	if s.idToken != "" {
		out = append(out, &http.Cookie{Name: BearerCookie, Value: s.idToken})
	}
	if s.refreshToken != "" {
		out = append(out, &http.Cookie{Name: RefreshCookie, Value: s.refreshToken})
	}
	return out
}

// absorb applies Set-Cookie headers for the session cookies, including
// deletions.
func (s *Session) absorb(resp *http.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range resp.Cookies() {
		value := c.Value
		if c.MaxAge < 0 {
			value = ""
		}
		switch c.Name {
		case BearerCookie:
			s.idToken = value
		case RefreshCookie:
			s.refreshToken = value
		}
	}
}

func (s *Session) do(ctx context.Context, method, path string, form url.Values) (*http.Response, error) {
	var resp *http.Response
	var err error
	if form != nil {
		resp, err = s.client.doForm(ctx, path, form, s.cookies())
	} else {
		resp, err = s.client.doRequest(ctx, method, path, nil, nil, s.cookies())
	}
	if err != nil {
		return nil, err
	}
	s.absorb(resp)
	return resp, nil
}

// ListNotesPage returns the HTML of the notes page.
func (s *Session) ListNotesPage(ctx context.Context) (string, error) {
	resp, err := s.do(ctx, http.MethodGet, "/notes/", nil)
	if err != nil {
		return "", err
	}
	return readBody(resp, http.StatusOK)
}

// NotePage returns the HTML of one note.
func (s *Session) NotePage(ctx context.Context, id int64) (string, error) {
	resp, err := s.do(ctx, http.MethodGet, "/notes/"+strconv.FormatInt(id, 10)+"/", nil)
	if err != nil {
		return "", err
	}
	return readBody(resp, http.StatusOK)
}

func (s *Session) CreateNote(ctx context.Context, note string) (*NoteResponse, error) {
	resp, err := s.do(ctx, http.MethodPost, "/notes/create/", url.Values{"note": {note}})
	if err != nil {
		return nil, err
	}
	var out NoteResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateNote(ctx context.Context, id int64, note string) (*NoteResponse, error) {
	resp, err := s.do(ctx, http.MethodPost, "/notes/update/", url.Values{
		"uid":  {strconv.FormatInt(id, 10)},
		"note": {note},
	})
	if err != nil {
		return nil, err
	}
	var out NoteResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the session on this device, or on every device when all is
// set. The session is empty afterwards.
func (s *Session) Logout(ctx context.Context, all bool) error {
	value := "Logout from This Device"
	if all {
		value = "Logout from All Devices"
	}
	resp, err := s.do(ctx, http.MethodPost, "/auth/logout/", url.Values{"logout": {value}})
	if err != nil {
		return err
	}
	_, err = readBody(resp, http.StatusSeeOther)
	return err
}
