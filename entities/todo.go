package entities

import (
	"time"

	"github.com/twoojoo/zschema/schema"
)

// Priority ranks a todo.
type Priority string

// Priority values.
const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists the accepted priorities in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// PriorityEnum is the field schema of a priority value.
var PriorityEnum = schema.Enum(string(PriorityLow), string(PriorityMedium), string(PriorityHigh))

// TodoSchema validates a todo item.
var TodoSchema = schema.NewObject("Todo",
	schema.Prop("title", schema.String().
		Min(1, "Title is required").
		Max(100, "Title must be at most 100 characters")),
	schema.Prop("description", schema.String().
		Max(500, "Description must be at most 500 characters").
		Optional()),
	schema.Prop("completed", schema.Bool().Default(false)),
	schema.Prop("priority", PriorityEnum.Default(string(PriorityMedium))),
	schema.Prop("dueDate", schema.Date().Optional()),
)

// CreateTodoSchema leaves completion to the server; userId is set from the
// session when absent.
var CreateTodoSchema = TodoSchema.
	Omit("completed").
	Extend(schema.Prop("userId", schema.String().Optional())).
	WithTitle("CreateTodo")

// UpdateTodoSchema validates a todo patch; every field is optional.
var UpdateTodoSchema = TodoSchema.Partial().WithTitle("UpdateTodo")

// TodoIDSchema validates a todo ID parameter.
var TodoIDSchema = schema.NewObject("TodoID",
	schema.Prop("id", schema.String().Min(1, "Todo ID is required")),
)

// TodoListSchema validates todo list queries.
var TodoListSchema = schema.NewObject("TodoList",
	schema.Prop("page", pageField),
	schema.Prop("limit", limitField),
	schema.Prop("completed", schema.Bool().Optional()),
	schema.Prop("priority", PriorityEnum.Optional()),
	schema.Prop("search", schema.String().Optional()),
)

// TodoFilterSchema validates todo filter options.
var TodoFilterSchema = schema.NewObject("TodoFilter",
	schema.Prop("completed", schema.Bool().Optional()),
	schema.Prop("priority", PriorityEnum.Optional()),
	schema.Prop("dueDateFrom", schema.Date().Optional()),
	schema.Prop("dueDateTo", schema.Date().Optional()),
)

// Todo is a validated todo item.
type Todo struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// CreateTodo is a validated new todo.
type CreateTodo struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	UserID      string     `json:"userId,omitempty"`
}

// UpdateTodo carries only the fields present in the request.
type UpdateTodo struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// TodoID is a decoded todo ID parameter.
type TodoID struct {
	ID string `json:"id"`
}

// TodoList is a decoded todo list query.
type TodoList struct {
	Pagination
	Completed *bool     `json:"completed,omitempty"`
	Priority  *Priority `json:"priority,omitempty"`
	Search    string    `json:"search,omitempty"`
}

// TodoFilter is a decoded set of todo filters.
type TodoFilter struct {
	Completed   *bool      `json:"completed,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	DueDateFrom *time.Time `json:"dueDateFrom,omitempty"`
	DueDateTo   *time.Time `json:"dueDateTo,omitempty"`
}
