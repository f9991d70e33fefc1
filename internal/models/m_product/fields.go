package m_product

// Field constants for the products table.
const (
	TableName = "products"

	ColProductID          = "product_id"
	ColName               = "name"
	ColDescription        = "description"
	ColPriceConfiguration = "price_configuration"
	ColAttributes         = "attributes"
	ColTenantID           = "tenant_id"
	ColCategoryID         = "category_id"
	ColIsPublish          = "is_publish"
	ColImageKey           = "image_key"
	ColCreatedAt          = "created_at"
	ColUpdatedAt          = "updated_at"
)

// Columns lists every column in the order read queries scan them.
var Columns = []string{
	ColProductID,
	ColName,
	ColDescription,
	ColPriceConfiguration,
	ColAttributes,
	ColTenantID,
	ColCategoryID,
	ColIsPublish,
	ColImageKey,
	ColCreatedAt,
	ColUpdatedAt,
}
