package m_topping

// Field constants for the toppings table.
const (
	TableName = "toppings"

	ColToppingID = "topping_id"
	ColName      = "name"
	ColPrice     = "price"
	ColImageURI  = "image_uri"
	ColImageKey  = "image_key"
	ColTenantID  = "tenant_id"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
)

var Columns = []string{
	ColToppingID,
	ColName,
	ColPrice,
	ColImageURI,
	ColImageKey,
	ColTenantID,
	ColCreatedAt,
	ColUpdatedAt,
}
