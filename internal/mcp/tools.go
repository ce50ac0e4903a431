package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/pinlog/internal/app"
	"github.com/claude/pinlog/internal/models"
)

// formValue renders an optional numeric argument the way a form field would
// hold it: empty when absent.
func formValue(req mcp.CallToolRequest, name string) string {
	if _, ok := req.GetArguments()[name]; !ok {
		return ""
	}
	return strconv.FormatFloat(req.GetFloat(name, 0), 'f', -1, 64)
}

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List every logged workout in creation order. Each has type, distance (km), duration (min), coords [lat, lng], rate (min/km for runs, km/h for rides), activityId, description and cadence or elevationGain."),
)

var toolLogWorkout = mcp.NewTool("log_workout",
	mcp.WithDescription("Log a running or cycling workout at a map position. Runs need a positive cadence; rides need an elevation gain."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Workout type"), mcp.Enum("running", "cycling")),
	mcp.WithNumber("lat", mcp.Required(), mcp.Description("Latitude of the workout")),
	mcp.WithNumber("lng", mcp.Required(), mcp.Description("Longitude of the workout")),
	mcp.WithNumber("distance", mcp.Required(), mcp.Description("Distance in km, greater than 0")),
	mcp.WithNumber("duration", mcp.Required(), mcp.Description("Duration in minutes, greater than 0")),
	mcp.WithNumber("cadence", mcp.Description("Steps per minute. Required for running.")),
	mcp.WithNumber("elevation", mcp.Description("Elevation gain in metres. Required for cycling.")),
)

var toolDeleteWorkout = mcp.NewTool("delete_workout",
	mcp.WithDescription("Delete one workout by its activityId."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("activityId of the workout")),
)

var toolClearWorkouts = mcp.NewTool("clear_workouts",
	mcp.WithDescription("Delete every logged workout."),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recs, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(recs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	lat, err := req.RequireFloat("lat")
	if err != nil {
		return mcp.NewToolResultError("lat parameter is required"), nil
	}
	lng, err := req.RequireFloat("lng")
	if err != nil {
		return mcp.NewToolResultError("lng parameter is required"), nil
	}

	f := app.Form{
		Type:      typ,
		Distance:  formValue(req, "distance"),
		Duration:  formValue(req, "duration"),
		Cadence:   formValue(req, "cadence"),
		Elevation: formValue(req, "elevation"),
	}
	entry, err := h.ds.LogWorkout(ctx, models.Coords{Lat: lat, Lng: lng}, f)
	if errors.Is(err, app.ErrInvalidInput) {
		return mcp.NewToolResultError(app.InvalidValuesMessage + ": " + err.Error()), nil
	}
	if err != nil {
		h.log.Error("mcp log_workout", "error", err)
		return mcp.NewToolResultError("log failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entry)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) deleteWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireFloat("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	found, err := h.ds.DeleteWorkout(ctx, int64(id))
	if err != nil {
		h.log.Error("mcp delete_workout", "error", err)
		return mcp.NewToolResultError("delete failed: " + err.Error()), nil
	}
	if !found {
		return mcp.NewToolResultText(fmt.Sprintf("no workout with id %d", int64(id))), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted workout %d", int64(id))), nil
}

func (h *handlers) clearWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.ds.ClearWorkouts(ctx); err != nil {
		h.log.Error("mcp clear_workouts", "error", err)
		return mcp.NewToolResultError("clear failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("all workouts cleared"), nil
}
