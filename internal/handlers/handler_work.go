package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/oneflow/internal/core/ports/services"
	"github.com/SscSPs/oneflow/internal/dto"
	"github.com/SscSPs/oneflow/internal/middleware"
)

// workHandler handles HTTP requests for tasks, timesheets and expenses.
type workHandler struct {
	taskService      portssvc.TaskSvcFacade
	timesheetService portssvc.TimesheetSvcFacade
	expenseService   portssvc.ExpenseSvcFacade
}

// registerWorkRoutes registers task, timesheet and expense routes.
func registerWorkRoutes(rg *gin.RouterGroup, ts portssvc.TaskSvcFacade, tss portssvc.TimesheetSvcFacade, es portssvc.ExpenseSvcFacade) {
	h := &workHandler{taskService: ts, timesheetService: tss, expenseService: es}

	tasks := rg.Group("/tasks")
	{
		tasks.POST("", h.createTask)
		tasks.GET("", h.listTasks)
		tasks.GET("/:taskID", h.getTask)
		tasks.PATCH("/:taskID", h.updateTask)
		tasks.POST("/:taskID/hours", h.logHours)
	}

	timesheets := rg.Group("/timesheets")
	{
		timesheets.POST("", h.logTimesheet)
		timesheets.GET("", h.listTimesheets)
	}

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:expenseID", h.getExpense)
		expenses.PATCH("/:expenseID/status", h.updateExpenseStatus)
	}
}

// createTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   task body dto.CreateTaskRequest true "Task details"
// @Success 201 {object} domain.Task
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 500 {object} map[string]string "Failed to create task"
// @Security BearerAuth
// @Router /tasks [post]
func (h *workHandler) createTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTask", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

// getTask godoc
// @Summary Get a task by ID
// @Tags tasks
// @Produce  json
// @Param   taskID path string true "Task ID"
// @Success 200 {object} domain.Task
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 500 {object} map[string]string "Failed to retrieve task"
// @Security BearerAuth
// @Router /tasks/{taskID} [get]
func (h *workHandler) getTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	task, err := h.taskService.GetTask(c.Request.Context(), c.Param("taskID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// listTasks godoc
// @Summary List tasks
// @Tags tasks
// @Produce  json
// @Param   projectID query string false "Filter by project"
// @Param   status query string false "Filter by status"
// @Success 200 {array} domain.Task
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list tasks"
// @Security BearerAuth
// @Router /tasks [get]
func (h *workHandler) listTasks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTasksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	tasks, err := h.taskService.ListTasks(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// updateTask godoc
// @Summary Update a task
// @Description Updates editable task fields. Logged hours only change through hours and timesheet entries.
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   taskID path string true "Task ID"
// @Param   task body dto.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} domain.Task
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 500 {object} map[string]string "Failed to update task"
// @Security BearerAuth
// @Router /tasks/{taskID} [patch]
func (h *workHandler) updateTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTask", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), c.Param("taskID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// logHours godoc
// @Summary Log hours on a task
// @Description Atomically adds hours to the task without creating a timesheet
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   taskID path string true "Task ID"
// @Param   hours body dto.LogHoursRequest true "Hours to add"
// @Success 200 {object} domain.Task
// @Failure 400 {object} map[string]string "Hours must be positive"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 500 {object} map[string]string "Failed to log hours"
// @Security BearerAuth
// @Router /tasks/{taskID}/hours [post]
func (h *workHandler) logHours(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LogHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	task, err := h.taskService.LogHours(c.Request.Context(), c.Param("taskID"), req.Hours, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to log hours")
		return
	}
	c.JSON(http.StatusOK, task)
}

// logTimesheet godoc
// @Summary Record a timesheet
// @Description Stores the timesheet and adds its hours to the task in one transaction. Returns both.
// @Tags timesheets
// @Accept  json
// @Produce  json
// @Param   timesheet body dto.LogTimesheetRequest true "Timesheet details"
// @Success 201 {object} map[string]interface{} "timesheet and updated task"
// @Failure 400 {object} map[string]string "Invalid input or project mismatch"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 500 {object} map[string]string "Failed to log timesheet"
// @Security BearerAuth
// @Router /timesheets [post]
func (h *workHandler) logTimesheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LogTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for LogTimesheet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	timesheet, task, err := h.timesheetService.LogTimesheet(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to log timesheet")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"timesheet": timesheet, "task": task})
}

// listTimesheets godoc
// @Summary List timesheets
// @Tags timesheets
// @Produce  json
// @Param   taskID query string false "Filter by task"
// @Param   projectID query string false "Filter by project"
// @Param   employeeID query string false "Filter by employee"
// @Param   from query string false "First day, YYYY-MM-DD"
// @Param   to query string false "Last day (inclusive), YYYY-MM-DD"
// @Success 200 {array} domain.Timesheet
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list timesheets"
// @Security BearerAuth
// @Router /timesheets [get]
func (h *workHandler) listTimesheets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTimesheetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	timesheets, err := h.timesheetService.ListTimesheets(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list timesheets")
		return
	}
	c.JSON(http.StatusOK, timesheets)
}

// createExpense godoc
// @Summary Record an expense
// @Description Records the expense and attaches it to its project. Non-billable amounts add to project cost.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 409 {object} map[string]string "Concurrent project update"
// @Failure 500 {object} map[string]string "Failed to record expense"
// @Security BearerAuth
// @Router /expenses [post]
func (h *workHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record expense")
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// getExpense godoc
// @Summary Get an expense by ID
// @Tags expenses
// @Produce  json
// @Param   expenseID path string true "Expense ID"
// @Success 200 {object} domain.Expense
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Failed to retrieve expense"
// @Security BearerAuth
// @Router /expenses/{expenseID} [get]
func (h *workHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expense, err := h.expenseService.GetExpense(c.Request.Context(), c.Param("expenseID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve expense")
		return
	}
	c.JSON(http.StatusOK, expense)
}

// listExpenses godoc
// @Summary List expenses
// @Tags expenses
// @Produce  json
// @Param   projectID query string false "Filter by project"
// @Param   status query string false "Filter by status"
// @Success 200 {array} domain.Expense
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list expenses"
// @Security BearerAuth
// @Router /expenses [get]
func (h *workHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// updateExpenseStatus godoc
// @Summary Change an expense status
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expenseID path string true "Expense ID"
// @Param   status body dto.UpdateExpenseStatusRequest true "New status"
// @Success 200 {object} domain.Expense
// @Failure 400 {object} map[string]string "Illegal status transition"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Failed to update expense status"
// @Security BearerAuth
// @Router /expenses/{expenseID}/status [patch]
func (h *workHandler) updateExpenseStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateExpenseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateExpenseStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	expense, err := h.expenseService.UpdateExpenseStatus(c.Request.Context(), c.Param("expenseID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update expense status")
		return
	}
	c.JSON(http.StatusOK, expense)
}
