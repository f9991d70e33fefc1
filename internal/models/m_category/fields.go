package m_category

const (
	TableName = "categories"

	ColCategoryID         = "category_id"
	ColName               = "name"
	ColPriceConfiguration = "price_configuration"
	ColAttributes         = "attributes"
	ColCreatedAt          = "created_at"
	ColUpdatedAt          = "updated_at"
)

var Columns = []string{
	ColCategoryID,
	ColName,
	ColPriceConfiguration,
	ColAttributes,
	ColCreatedAt,
	ColUpdatedAt,
}
