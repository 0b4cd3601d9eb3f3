package main

//go:generate swag init -g main.go -d ./,../../internal/handlers,../../internal/dto,../../internal/core/domain -o ./docs

// @title OneFlow API
// @version 1.0
// @description Project ledger for sales orders, purchase orders, invoices, vendor bills, expenses, tasks and timesheets.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	Execute()
}
