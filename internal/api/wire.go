package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tOgg1/riskdesk/internal/models"
)

// The server still speaks its legacy vocabulary: "teams" are topics and
// "pokemon" are companies. Wire structs stay private to this package so the
// rest of the code only sees models.

// flexString decodes a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexInt decodes a JSON number or numeric string. Unparseable values decode
// to zero rather than failing the whole record.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(s)))
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// flexTime decodes RFC 3339 timestamps and tolerates anything else as zero.
type flexTime time.Time

func (f *flexTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = flexTime(time.Time{})
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		*f = flexTime(time.Time{})
		return nil
	}
	*f = flexTime(parsed.UTC())
	return nil
}

type wireProfile struct {
	ID            flexString `json:"id"`
	Name          string     `json:"name"`
	Persistent    bool       `json:"persistent"`
	SelectedCount flexInt    `json:"selectedCount"`
	CreatedAt     flexTime   `json:"createdAt"`
}

func (w wireProfile) toModel() (models.Profile, error) {
	p := models.Profile{
		ID:            strings.TrimSpace(string(w.ID)),
		Name:          w.Name,
		Persistent:    w.Persistent,
		SelectedCount: int(w.SelectedCount),
		CreatedAt:     time.Time(w.CreatedAt),
	}
	return p, p.Validate()
}

type wireTopicOwner struct {
	ID   flexString `json:"id"`
	Name string     `json:"name"`
}

type wireTopic struct {
	ID            flexString      `json:"id"`
	Name          string          `json:"name"`
	ProfileID     flexString      `json:"profileId"`
	Profile       *wireTopicOwner `json:"profile,omitempty"`
	SelectedCount flexInt         `json:"selectedCount"`
	CreatedAt     flexTime        `json:"createdAt"`
}

// toModel prefers the embedded owner record over the bare profileId, matching
// how the server populates relations when it eagerly loads them.
func (w wireTopic) toModel() (models.Topic, error) {
	t := models.Topic{
		ID:            strings.TrimSpace(string(w.ID)),
		Name:          w.Name,
		ProfileID:     strings.TrimSpace(string(w.ProfileID)),
		SelectedCount: int(w.SelectedCount),
		CreatedAt:     time.Time(w.CreatedAt),
	}
	if w.Profile != nil {
		if id := strings.TrimSpace(string(w.Profile.ID)); id != "" {
			t.ProfileID = id
		}
		t.ProfileName = w.Profile.Name
	}
	return t, t.Validate()
}

type wireDocument struct {
	ID   flexString `json:"id"`
	Name string     `json:"name"`
	URL  string     `json:"url,omitempty"`
}

type wireCompany struct {
	ID            flexString     `json:"id"`
	Name          string         `json:"name"`
	URLs          []string       `json:"urls,omitempty"`
	Documents     []wireDocument `json:"documents,omitempty"`
	SelectedCount flexInt        `json:"selectedCount"`
}

func (w wireCompany) toModel() (models.Company, error) {
	c := models.Company{
		ID:            strings.TrimSpace(string(w.ID)),
		Name:          w.Name,
		URLs:          append([]string(nil), w.URLs...),
		SelectedCount: int(w.SelectedCount),
	}
	for _, doc := range w.Documents {
		c.Documents = append(c.Documents, models.CompanyDocument{
			ID:   strings.TrimSpace(string(doc.ID)),
			Name: doc.Name,
			URL:  doc.URL,
		})
	}
	return c, c.Validate()
}

type wireCompanyNames struct {
	Names []string `json:"pokemonNames"`
}

type createProfileRequest struct {
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

type createTopicRequest struct {
	Name       string   `json:"name"`
	ProfileID  string   `json:"profileId"`
	CompanyIDs []string `json:"pokemonIds"`
}

// convertList decodes each wire record, dropping the ones that fail
// validation. One bad row must not hide the rest of the list.
func convertList[W any, M any](log zerolog.Logger, kind string, in []W, convert func(W) (M, error)) []M {
	out := make([]M, 0, len(in))
	for i, w := range in {
		m, err := convert(w)
		if err != nil {
			log.Warn().Err(err).Str("kind", kind).Int("index", i).Msg("dropping invalid record")
			continue
		}
		out = append(out, m)
	}
	return out
}
