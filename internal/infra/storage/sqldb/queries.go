package sqldb

// Every statement aliases its columns to the snake_case names used by the
// portable schema, so one scan struct serves all dialects.

const mssqlProductSelect = `
	SELECT
		p.ProductID AS product_id,
		p.Name AS name,
		p.ProductNumber AS product_number,
		p.Color AS color,
		p.StandardCost AS standard_cost,
		p.ListPrice AS list_price,
		p.Size AS size,
		p.Weight AS weight,
		p.ProductCategoryID AS product_category_id,
		p.ProductModelID AS product_model_id,
		p.SellStartDate AS sell_start_date,
		p.SellEndDate AS sell_end_date,
		p.DiscontinuedDate AS discontinued_date,
		p.ThumbnailPhotoFileName AS thumbnail_photo_file_name,
		CONVERT(nvarchar(36), p.rowguid) AS rowguid,
		p.ModifiedDate AS modified_date,
		pc.Name AS category_name,
		pm.Name AS product_model_name,
		CONVERT(nvarchar(max), pm.CatalogDescription) AS catalog_description,
		pd.Description AS product_description
	FROM SalesLT.Product p
	LEFT JOIN SalesLT.ProductCategory pc ON p.ProductCategoryID = pc.ProductCategoryID
	LEFT JOIN SalesLT.ProductModel pm ON p.ProductModelID = pm.ProductModelID
	LEFT JOIN SalesLT.ProductModelProductDescription pmpd
		ON pm.ProductModelID = pmpd.ProductModelID AND pmpd.Culture = 'en'
	LEFT JOIN SalesLT.ProductDescription pd ON pmpd.ProductDescriptionID = pd.ProductDescriptionID`

const portableProductSelect = `
	SELECT
		p.product_id,
		p.name,
		p.product_number,
		p.color,
		p.standard_cost,
		p.list_price,
		p.size,
		p.weight,
		p.product_category_id,
		p.product_model_id,
		p.sell_start_date,
		p.sell_end_date,
		p.discontinued_date,
		p.thumbnail_photo_file_name,
		CAST(p.rowguid AS TEXT) AS rowguid,
		p.modified_date,
		pc.name AS category_name,
		pm.name AS product_model_name,
		pm.catalog_description,
		pm.description AS product_description
	FROM product p
	LEFT JOIN product_category pc ON p.product_category_id = pc.product_category_id
	LEFT JOIN product_model pm ON p.product_model_id = pm.product_model_id`

const (
	mssqlProductOnSale    = `(p.SellEndDate IS NULL OR p.SellEndDate > GETDATE())`
	portableProductOnSale = `(p.sell_end_date IS NULL OR p.sell_end_date > CURRENT_TIMESTAMP)`
)

func productStatement(mssqlTail, portableTail string) Statement {
	portable := portableProductSelect + portableTail
	return Statement{
		DialectSQLServer: mssqlProductSelect + mssqlTail,
		DialectSQLite:    portable,
		DialectPostgres:  portable,
	}
}

var (
	listProducts = productStatement(
		"\n\tWHERE "+mssqlProductOnSale+"\n\tORDER BY p.Name",
		"\n\tWHERE "+portableProductOnSale+"\n\tORDER BY p.name",
	)

	getProduct = productStatement(
		"\n\tWHERE p.ProductID = :id",
		"\n\tWHERE p.product_id = :id",
	)

	productsByCategory = productStatement(
		"\n\tWHERE p.ProductCategoryID = :category_id AND "+mssqlProductOnSale+"\n\tORDER BY p.Name",
		"\n\tWHERE p.product_category_id = :category_id AND "+portableProductOnSale+"\n\tORDER BY p.name",
	)

	// :term is lowercased with wildcards by the caller; SQL Server compares
	// case-insensitively under the default collation.
	searchProducts = productStatement(`
	WHERE (p.Name LIKE :term
		OR p.ProductNumber LIKE :term
		OR pc.Name LIKE :term
		OR pd.Description LIKE :term)
		AND `+mssqlProductOnSale+`
	ORDER BY p.Name`, `
	WHERE (LOWER(p.name) LIKE :term
		OR LOWER(p.product_number) LIKE :term
		OR LOWER(pc.name) LIKE :term
		OR LOWER(pm.description) LIKE :term)
		AND `+portableProductOnSale+`
	ORDER BY p.name`,
	)
)

const mssqlCustomerSelect = `
	SELECT
		c.CustomerID AS customer_id,
		c.NameStyle AS name_style,
		c.Title AS title,
		c.FirstName AS first_name,
		c.MiddleName AS middle_name,
		c.LastName AS last_name,
		c.Suffix AS suffix,
		c.CompanyName AS company_name,
		c.SalesPerson AS sales_person,
		c.EmailAddress AS email_address,
		c.Phone AS phone,
		c.PasswordHash AS password_hash,
		c.PasswordSalt AS password_salt,
		CONVERT(nvarchar(36), c.rowguid) AS rowguid,
		c.ModifiedDate AS modified_date,
		COUNT(soh.SalesOrderID) AS total_orders,
		ISNULL(SUM(soh.TotalDue), 0) AS total_spent
	FROM SalesLT.Customer c
	LEFT JOIN SalesLT.SalesOrderHeader soh ON c.CustomerID = soh.CustomerID`

const mssqlCustomerGroup = `
	GROUP BY c.CustomerID, c.NameStyle, c.Title, c.FirstName, c.MiddleName,
		c.LastName, c.Suffix, c.CompanyName, c.SalesPerson, c.EmailAddress,
		c.Phone, c.PasswordHash, c.PasswordSalt, c.rowguid, c.ModifiedDate`

// Grouping by the primary key is enough for sqlite and postgres.
const portableCustomerSelect = `
	SELECT
		c.customer_id,
		c.name_style,
		c.title,
		c.first_name,
		c.middle_name,
		c.last_name,
		c.suffix,
		c.company_name,
		c.sales_person,
		c.email_address,
		c.phone,
		c.password_hash,
		c.password_salt,
		CAST(c.rowguid AS TEXT) AS rowguid,
		c.modified_date,
		COUNT(soh.sales_order_id) AS total_orders,
		COALESCE(SUM(soh.total_due), 0) AS total_spent
	FROM customer c
	LEFT JOIN sales_order_header soh ON c.customer_id = soh.customer_id`

const portableCustomerGroup = `
	GROUP BY c.customer_id`

func customerStatement(mssqlWhere, portableWhere, mssqlOrder, portableOrder string) Statement {
	portable := portableCustomerSelect + portableWhere + portableCustomerGroup + portableOrder
	return Statement{
		DialectSQLServer: mssqlCustomerSelect + mssqlWhere + mssqlCustomerGroup + mssqlOrder,
		DialectSQLite:    portable,
		DialectPostgres:  portable,
	}
}

var (
	listCustomers = customerStatement(
		"", "",
		"\n\tORDER BY c.FirstName, c.LastName",
		"\n\tORDER BY c.first_name, c.last_name",
	)

	getCustomer = customerStatement(
		"\n\tWHERE c.CustomerID = :id",
		"\n\tWHERE c.customer_id = :id",
		"", "",
	)

	getCustomerByEmail = customerStatement(
		"\n\tWHERE c.EmailAddress = :email",
		"\n\tWHERE LOWER(c.email_address) = :email",
		"", "",
	)

	searchCustomers = customerStatement(`
	WHERE c.FirstName LIKE :term
		OR c.LastName LIKE :term
		OR c.CompanyName LIKE :term
		OR c.EmailAddress LIKE :term`, `
	WHERE LOWER(c.first_name) LIKE :term
		OR LOWER(c.last_name) LIKE :term
		OR LOWER(c.company_name) LIKE :term
		OR LOWER(c.email_address) LIKE :term`,
		"\n\tORDER BY c.FirstName, c.LastName",
		"\n\tORDER BY c.first_name, c.last_name",
	)
)

const mssqlCategorySelect = `
	SELECT
		pc.ProductCategoryID AS product_category_id,
		pc.ParentProductCategoryID AS parent_product_category_id,
		pc.Name AS name,
		CONVERT(nvarchar(36), pc.rowguid) AS rowguid,
		pc.ModifiedDate AS modified_date,
		CASE WHEN EXISTS (
			SELECT 1 FROM SalesLT.ProductCategory s
			WHERE s.ParentProductCategoryID = pc.ProductCategoryID
		) THEN 1 ELSE 0 END AS has_sub_categories
	FROM SalesLT.ProductCategory pc`

const portableCategorySelect = `
	SELECT
		pc.product_category_id,
		pc.parent_product_category_id,
		pc.name,
		CAST(pc.rowguid AS TEXT) AS rowguid,
		pc.modified_date,
		CASE WHEN EXISTS (
			SELECT 1 FROM product_category s
			WHERE s.parent_product_category_id = pc.product_category_id
		) THEN 1 ELSE 0 END AS has_sub_categories
	FROM product_category pc`

var (
	listCategories = Statement{
		DialectSQLServer: mssqlCategorySelect + "\n\tORDER BY pc.Name",
		DialectSQLite:    portableCategorySelect + "\n\tORDER BY pc.name",
		DialectPostgres:  portableCategorySelect + "\n\tORDER BY pc.name",
	}

	getCategory = Statement{
		DialectSQLServer: mssqlCategorySelect + "\n\tWHERE pc.ProductCategoryID = :id",
		DialectSQLite:    portableCategorySelect + "\n\tWHERE pc.product_category_id = :id",
		DialectPostgres:  portableCategorySelect + "\n\tWHERE pc.product_category_id = :id",
	}
)

var (
	productStats = Statement{
		DialectSQLServer: `
			SELECT
				(SELECT COUNT(*) FROM SalesLT.Product) AS total,
				(SELECT COUNT(*) FROM SalesLT.Product
					WHERE SellEndDate IS NULL OR SellEndDate > GETDATE()) AS active,
				(SELECT COUNT(*) FROM SalesLT.Product
					WHERE SellEndDate IS NOT NULL AND SellEndDate <= GETDATE()) AS discontinued,
				(SELECT COUNT(*) FROM SalesLT.ProductCategory) AS categories`,
		DialectSQLite:   portableProductStats,
		DialectPostgres: portableProductStats,
	}

	customerStats = Statement{
		DialectSQLServer: `
			SELECT
				COUNT(DISTINCT c.CustomerID) AS total,
				COUNT(DISTINCT soh.CustomerID) AS with_orders
			FROM SalesLT.Customer c
			LEFT JOIN SalesLT.SalesOrderHeader soh ON c.CustomerID = soh.CustomerID`,
		DialectSQLite:   portableCustomerStats,
		DialectPostgres: portableCustomerStats,
	}

	orderStats = Statement{
		DialectSQLServer: `
			SELECT
				COUNT(*) AS total,
				COUNT(CASE WHEN YEAR(OrderDate) = YEAR(GETDATE()) THEN 1 END) AS this_year
			FROM SalesLT.SalesOrderHeader`,
		DialectSQLite: `
			SELECT
				COUNT(*) AS total,
				COUNT(CASE WHEN strftime('%Y', order_date) = strftime('%Y', 'now') THEN 1 END) AS this_year
			FROM sales_order_header`,
		DialectPostgres: `
			SELECT
				COUNT(*) AS total,
				COUNT(CASE WHEN EXTRACT(YEAR FROM order_date) = EXTRACT(YEAR FROM CURRENT_DATE) THEN 1 END) AS this_year
			FROM sales_order_header`,
	}

	tableCount = Statement{
		DialectSQLServer: `
			SELECT COUNT(*) AS table_count
			FROM INFORMATION_SCHEMA.TABLES
			WHERE TABLE_SCHEMA = 'SalesLT' AND TABLE_TYPE = 'BASE TABLE'`,
		DialectSQLite: `
			SELECT COUNT(*) AS table_count
			FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name <> 'goose_db_version'`,
		DialectPostgres: `
			SELECT COUNT(*) AS table_count
			FROM information_schema.tables
			WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
				AND table_name <> 'goose_db_version'`,
	}

	recordCounts = Statement{
		DialectSQLServer: `
			SELECT
				(SELECT COUNT(*) FROM SalesLT.Product) AS products_count,
				(SELECT COUNT(*) FROM SalesLT.Customer) AS customers_count,
				(SELECT COUNT(*) FROM SalesLT.ProductCategory) AS categories_count`,
		DialectSQLite:   portableRecordCounts,
		DialectPostgres: portableRecordCounts,
	}
)

const portableProductStats = `
	SELECT
		(SELECT COUNT(*) FROM product) AS total,
		(SELECT COUNT(*) FROM product
			WHERE sell_end_date IS NULL OR sell_end_date > CURRENT_TIMESTAMP) AS active,
		(SELECT COUNT(*) FROM product
			WHERE sell_end_date IS NOT NULL AND sell_end_date <= CURRENT_TIMESTAMP) AS discontinued,
		(SELECT COUNT(*) FROM product_category) AS categories`

const portableCustomerStats = `
	SELECT
		COUNT(DISTINCT c.customer_id) AS total,
		COUNT(DISTINCT soh.customer_id) AS with_orders
	FROM customer c
	LEFT JOIN sales_order_header soh ON c.customer_id = soh.customer_id`

const portableRecordCounts = `
	SELECT
		(SELECT COUNT(*) FROM product) AS products_count,
		(SELECT COUNT(*) FROM customer) AS customers_count,
		(SELECT COUNT(*) FROM product_category) AS categories_count`
