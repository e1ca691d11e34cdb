package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, entryHandler *EntryHandler, budgetHandler *BudgetHandler, savingHandler *SavingHandler, categoryHandler *CategoryHandler, recurringHandler *RecurringHandler, labelHandler *LabelHandler, activityHandler *ActivityHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Ledger entry routes
	entries := api.Group("/entries")
	entries.POST("", entryHandler.CreateEntry)
	entries.POST("/batch", entryHandler.CreateEntries)
	entries.GET("", entryHandler.GetEntries)
	entries.PUT("/:id", entryHandler.UpdateEntry)
	entries.DELETE("/:id", entryHandler.DeleteEntry)

	// Budget routes
	budgets := api.Group("/budgets")
	budgets.POST("/overall", budgetHandler.SetOverallBudget)
	budgets.POST("/category", budgetHandler.SetCategoryBudget)
	budgets.GET("", budgetHandler.GetBudgets)

	// Saving routes
	savings := api.Group("/savings")
	savings.POST("", savingHandler.SetSaving)
	savings.GET("", savingHandler.GetSavings)

	// Category routes
	categories := api.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.RenameCategory)
	categories.PATCH("/:id/affects-budget", categoryHandler.SetAffectsBudget)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Recurring obligation routes
	recurrings := api.Group("/recurrings")
	recurrings.POST("", recurringHandler.CreateRecurring)
	recurrings.GET("", recurringHandler.GetRecurrings)
	recurrings.PUT("/:id", recurringHandler.UpdateRecurring)
	recurrings.DELETE("/:id", recurringHandler.DeleteRecurring)
	recurrings.POST("/materialize", recurringHandler.Materialize)

	// Label routes
	api.GET("/labels", labelHandler.GetLabels)

	// Activity log routes
	api.GET("/activity", activityHandler.GetActivity)
}
