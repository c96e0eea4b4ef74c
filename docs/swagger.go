// Package docs TeamDesk API
//
// @title  TeamDesk API
// @version 0.1.0
// @description Multi-user notes, tasks, files, chat and live updates.
// @host      localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package docs

import (
	_ "teamdesk/cmd/server/handlers/httperr"
	_ "teamdesk/internal/services/auth"
	_ "teamdesk/internal/services/files"
	_ "teamdesk/internal/services/notes"
	_ "teamdesk/internal/services/tasks"
)
