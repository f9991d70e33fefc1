package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
)

const multipartMemory = 8 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// productForm is the multipart body of product create and update.
// Structured fields arrive as JSON text.
type productForm struct {
	Name               string `validate:"required,max=255"`
	Description        string `validate:"required"`
	PriceConfiguration string `validate:"required,json"`
	Attributes         string `validate:"required,json"`
	TenantID           string `validate:"required"`
	CategoryID         string `validate:"required"`
	IsPublish          bool
}

type productFields struct {
	productForm
	priceConfiguration domain.PriceConfiguration
	attributes         []domain.Attribute
	image              []byte
}

type toppingForm struct {
	Name     string  `validate:"required,max=255"`
	Price    float64 `validate:"gte=0"`
	TenantID string  `validate:"required"`
}

type toppingFields struct {
	toppingForm
	image []byte
}

type categoryBody struct {
	Name               string                        `json:"name" validate:"required,max=255"`
	PriceConfiguration map[string]domain.PriceSchema `json:"priceConfiguration" validate:"required,min=1,dive,keys,required,endkeys"`
	Attributes         []domain.AttributeSchema      `json:"attributes"`
}

func (b categoryBody) details() domain.CategoryDetails {
	return domain.CategoryDetails{
		Name:               b.Name,
		PriceConfiguration: b.PriceConfiguration,
		Attributes:         b.Attributes,
	}
}

func parseProductForm(r *http.Request) (*productFields, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, err
	}
	f := &productFields{productForm: productForm{
		Name:               r.FormValue("name"),
		Description:        r.FormValue("description"),
		PriceConfiguration: r.FormValue("priceConfiguration"),
		Attributes:         r.FormValue("attributes"),
		TenantID:           r.FormValue("tenantId"),
		CategoryID:         r.FormValue("categoryId"),
		IsPublish:          cast.ToBool(r.FormValue("isPublish")),
	}}
	if err := validate.Struct(f.productForm); err != nil {
		return nil, formError(err)
	}
	if err := json.Unmarshal([]byte(f.PriceConfiguration), &f.priceConfiguration); err != nil {
		return nil, &domain.ValidationError{Field: "priceConfiguration", Reason: "is not a valid price configuration"}
	}
	if err := json.Unmarshal([]byte(f.Attributes), &f.attributes); err != nil {
		return nil, &domain.ValidationError{Field: "attributes", Reason: "is not a valid attribute list"}
	}

	image, err := readImage(r, 0)
	if err != nil {
		return nil, err
	}
	f.image = image
	return f, nil
}

func parseToppingForm(r *http.Request) (*toppingFields, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, err
	}
	price, err := cast.ToFloat64E(strings.TrimSpace(r.FormValue("price")))
	if err != nil || r.FormValue("price") == "" {
		return nil, &domain.ValidationError{Field: "price", Reason: "must be a number"}
	}
	f := &toppingFields{toppingForm: toppingForm{
		Name:     r.FormValue("name"),
		Price:    price,
		TenantID: r.FormValue("tenantId"),
	}}
	if err := validate.Struct(f.toppingForm); err != nil {
		return nil, formError(err)
	}

	image, err := readImage(r, domain.MaxToppingImageBytes)
	if err != nil {
		return nil, err
	}
	f.image = image
	return f, nil
}

func parseCategoryBody(r *http.Request) (*categoryBody, error) {
	var b categoryBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		return nil, &domain.ValidationError{Field: "body", Reason: "is not valid JSON"}
	}
	if err := validate.Struct(b); err != nil {
		return nil, formError(err)
	}
	return &b, nil
}

// readImage returns the bytes of the optional "image" part. A limit above
// zero stops reading one byte past it so oversized files are rejected
// without being buffered whole.
func readImage(r *http.Request, limit int64) ([]byte, error) {
	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var src io.Reader = file
	if limit > 0 {
		src = io.LimitReader(file, limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, domain.ErrImageTooLarge
	}
	return data, nil
}

// searchQuery coerces the public search parameters. Unparseable numbers
// fall back to defaults. isPublish narrows to published products when true
// and is otherwise ignored.
func searchQuery(v url.Values) (dto.SearchFilters, int, int) {
	f := dto.SearchFilters{Q: v.Get("q")}
	if s := v.Get("tenantId"); s != "" {
		f.TenantID = &s
	}
	if s := v.Get("categoryId"); s != "" {
		f.CategoryID = &s
	}
	if s := v.Get("isPublish"); s != "" {
		if b, err := cast.ToBoolE(s); err == nil && b {
			f.IsPublish = &b
		}
	}
	page, _ := cast.ToIntE(v.Get("page"))
	limit, _ := cast.ToIntE(v.Get("limit"))
	return f, page, limit
}

// formError converts the first validator failure into a ValidationError.
func formError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &domain.ValidationError{Field: "body", Reason: err.Error()}
	}
	fe := verrs[0]
	return &domain.ValidationError{Field: fieldName(fe.Field()), Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "json":
		return "must be valid JSON"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "min":
		return "cannot be empty"
	}
	return "is invalid"
}

// fieldName maps struct field names to their wire names.
func fieldName(f string) string {
	switch f {
	case "TenantID":
		return "tenantId"
	case "CategoryID":
		return "categoryId"
	case "":
		return "body"
	}
	return strings.ToLower(f[:1]) + f[1:]
}
