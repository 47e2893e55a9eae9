package shared

const (
	// DefaultLimit applies when the caller omits limit.
	DefaultLimit = 50
	// MaxLimit caps a single page.
	MaxLimit = 500
)

// Page holds normalised limit/offset values.
type Page struct {
	Limit  int
	Offset int
}

// NewPage applies defaults and bounds to optional limit/offset arguments.
func NewPage(limit, offset *int) (Page, error) {
	page := Page{Limit: DefaultLimit}
	verr := &ValidationError{}
	if limit != nil {
		switch {
		case *limit < 0:
			verr.Add("limit", "must not be negative")
		case *limit > MaxLimit:
			page.Limit = MaxLimit
		default:
			page.Limit = *limit
		}
	}
	if offset != nil {
		if *offset < 0 {
			verr.Add("offset", "must not be negative")
		} else {
			page.Offset = *offset
		}
	}
	if err := verr.OrNil(); err != nil {
		return Page{}, err
	}
	return page, nil
}
