package aggregates

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/data/repos"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
)

const msgInvalidTags = "無効なタグが含まれています"

// TagValidation reports which submitted tags resolved to usable tags.
// ValidTagIDs is filled even when IsValid is false.
type TagValidation struct {
	ValidTagIDs []uuid.UUID
	IsValid     bool
}

type TagValidator interface {
	ValidateTagIDsForUser(dbc dbctx.Context, tagIDs []string, userID uuid.UUID) (TagValidation, error)
}

type tagValidator struct {
	tags repos.TagRepo
}

func NewTagValidator(tags repos.TagRepo) TagValidator {
	return &tagValidator{tags: tags}
}

// ValidateTagIDsForUser drops blanks and duplicates, then checks every remaining id is a
// system tag or a tag owned by userID. Ids that are not uuids stay in the count and never resolve.
func (v *tagValidator) ValidateTagIDsForUser(dbc dbctx.Context, tagIDs []string, userID uuid.UUID) (TagValidation, error) {
	want, parsed := dedupeTagIDs(tagIDs)
	if want == 0 {
		return TagValidation{ValidTagIDs: []uuid.UUID{}, IsValid: true}, nil
	}
	if len(parsed) == 0 {
		return TagValidation{ValidTagIDs: []uuid.UUID{}, IsValid: false}, nil
	}

	rows, err := v.tags.GetUsableByIDs(dbc, userID, parsed)
	if err != nil {
		return TagValidation{}, err
	}
	valid := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		if row == nil || !row.Ownership().UsableBy(userID) {
			continue
		}
		valid = append(valid, row.ID)
	}
	return TagValidation{ValidTagIDs: valid, IsValid: len(valid) == want}, nil
}

// dedupeTagIDs returns the number of distinct non-blank ids and the distinct parseable ones.
func dedupeTagIDs(tagIDs []string) (int, []uuid.UUID) {
	seenRaw := make(map[string]struct{}, len(tagIDs))
	seenID := make(map[uuid.UUID]struct{}, len(tagIDs))
	parsed := make([]uuid.UUID, 0, len(tagIDs))
	count := 0
	for _, raw := range tagIDs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			if _, ok := seenRaw[raw]; ok {
				continue
			}
			seenRaw[raw] = struct{}{}
			count++
			continue
		}
		if _, ok := seenID[id]; ok {
			continue
		}
		seenID[id] = struct{}{}
		parsed = append(parsed, id)
		count++
	}
	return count, parsed
}
