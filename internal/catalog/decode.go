package catalog

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// decodePage parses a provider search response. Unknown fields are skipped so
// provider-side additions never break the client.
func decodePage(data []byte) (*Page, error) {
	page := &Page{}
	sawResults := false

	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "results":
			sawResults = true
			return d.Arr(func(d *jx.Decoder) error {
				rec, err := decodeRecord(d)
				if err != nil {
					return err
				}
				page.Results = append(page.Results, rec)
				return nil
			})
		case "totalResults":
			n, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "totalResults")
			}
			page.TotalResults = n
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode page")
	}
	if !sawResults {
		return nil, ErrInvalidResponse
	}
	if page.TotalResults == 0 {
		page.TotalResults = len(page.Results)
	}
	return page, nil
}

func decodeRecord(d *jx.Decoder) (Record, error) {
	var rec Record
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			// Provider record ids are numeric; keep them as opaque strings.
			if d.Next() == jx.String {
				s, err := d.Str()
				if err != nil {
					return err
				}
				rec.ID = s
				return nil
			}
			n, err := d.Num()
			if err != nil {
				return errors.Wrap(err, "id")
			}
			rec.ID = n.String()
			return nil
		case "title":
			s, err := d.Str()
			rec.Title = s
			return err
		case "image":
			s, err := d.Str()
			rec.Image = s
			return err
		case "pricePerServing":
			cents, err := decodePriceCents(d)
			if err != nil {
				return err
			}
			rec.PricePerServing = cents
			return nil
		case "summary":
			s, err := d.Str()
			rec.Summary = s
			return err
		case "readyInMinutes":
			n, err := d.Int()
			rec.ReadyInMinutes = n
			return err
		case "servings":
			n, err := d.Int()
			rec.Servings = n
			return err
		case "diets":
			return d.Arr(func(d *jx.Decoder) error {
				s, err := d.Str()
				if err != nil {
					return err
				}
				rec.Diets = append(rec.Diets, s)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return Record{}, errors.Wrap(err, "decode record")
	}
	if rec.ID == "" {
		return Record{}, errors.Wrap(ErrInvalidResponse, "record missing id")
	}
	return rec, nil
}

// decodePriceCents converts the provider's major-unit decimal price into
// integer cents, rounding half away from zero. Going through decimal avoids
// binary float artifacts like 4.35*100 = 434.99999.
func decodePriceCents(d *jx.Decoder) (int64, error) {
	n, err := d.Num()
	if err != nil {
		return 0, errors.Wrap(err, "pricePerServing")
	}
	price, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0, errors.Wrap(err, "pricePerServing")
	}
	return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
