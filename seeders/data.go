package seeders

type namedRow struct {
	ID   int64
	Name string
}

var userTypesData = []namedRow{
	{1, "Administrator"},
	{2, "Manager"},
	{3, "Employee"},
}

var terminationReasonsData = []namedRow{
	{1, "Resignation"},
	{2, "Retirement"},
	{3, "Termination for cause"},
	{4, "Layoff"},
	{5, "End of contract"},
	{6, "Transfer"},
}

var jobTitlesData = []namedRow{
	{1, "Store Manager"},
	{2, "Assistant Store Manager"},
	{3, "Shift Supervisor"},
	{4, "Sales Associate"},
	{5, "Cashier"},
	{6, "District Manager"},
	{7, "Regional Manager"},
	{8, "Market Director"},
	{9, "Trainee"},
}

type hierarchyRow struct {
	ID       int64
	Name     string
	Code     string
	ParentID int64
}

// sample pre-migration chain: district -> region -> market
var marketsData = []hierarchyRow{
	{1, "West Market", "MKT-W", 0},
	{2, "East Market", "MKT-E", 0},
}

var regionsData = []hierarchyRow{
	{1, "Pacific Region", "REG-PAC", 1},
	{2, "Mountain Region", "REG-MTN", 1},
	{3, "Atlantic Region", "REG-ATL", 2},
}

var districtsData = []hierarchyRow{
	{1, "Seattle District", "DST-SEA", 1},
	{2, "Portland District", "DST-PDX", 1},
	{3, "Denver District", "DST-DEN", 2},
	{4, "Boston District", "DST-BOS", 3},
	{5, "New York District", "DST-NYC", 3},
}
