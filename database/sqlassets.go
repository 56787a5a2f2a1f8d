package sqlassets

import _ "embed"

//go:embed schema/listings.sql
var ListingsSQL string

//go:embed schema/admin_users.sql
var AdminUsersSQL string

//go:embed schema/activity_logs.sql
var ActivityLogsSQL string
