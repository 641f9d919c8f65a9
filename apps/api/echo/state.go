package echoapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/academic"
	"github.com/trezcool/classhub/core/identity"
	"github.com/trezcool/classhub/core/session"
	"github.com/trezcool/classhub/core/state"
	"github.com/trezcool/classhub/core/timetable"
)

// maxImportSize bounds raw state edits.
const maxImportSize = 8 << 20

func (s *Server) registerItemAPI(authed *echo.Group) {
	ig := authed.Group("/items")
	ig.POST("", s.createItem)
	ig.DELETE("", s.clearItems)
	ig.DELETE("/:id", s.deleteItem)

	authed.POST("/uploads", s.upload)
}

func (s *Server) registerTimetableAPI(authed *echo.Group) {
	tg := authed.Group("/timetable")
	tg.POST("", s.addTimetableEntry)
	tg.PUT("", s.replaceTimetable)
	tg.DELETE("/:id", s.removeTimetableEntry)
}

func (s *Server) registerIdentityAPI(authed *echo.Group) {
	ig := authed.Group("/identities")
	ig.PUT("/:id/role", s.changeRole)
	ig.DELETE("/:id", s.removeIdentity)
}

func (s *Server) registerSubjectAPI(authed *echo.Group) {
	authed.PUT("/subjects/:id", s.updateSubject)
}

func (s *Server) registerStateAPI(authed *echo.Group) {
	sg := authed.Group("/state", elevatedMiddleware())
	sg.GET("/export", s.exportState)
	sg.PATCH("", s.importState)
}

type RoleRequest struct {
	Role string `json:"role"`
}

// Handlers

func (s *Server) createItem(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data academic.NewItem
	if err = bind(ctx, &data, "NewItem"); err != nil {
		return err
	}
	item, err := sess.CreateItem(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating item")
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (s *Server) deleteItem(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if err = sess.DeleteItem(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting item")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) clearItems(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if err = sess.ClearItems(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "clearing items")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// upload stores the multipart "file" and returns the resource to attach to the item being drafted.
func (s *Server) upload(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "is required"})
	}
	if limit := s.conf.Server.MaxUploadSize; limit > 0 && fh.Size > limit {
		return core.NewValidationError(nil, core.FieldError{
			Field: "file",
			Error: "must be at most " + strconv.FormatInt(limit>>20, 10) + " MB",
		})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = f.Close() }()

	res, err := sess.UploadFile(ctx.Request().Context(), fh.Filename, fh.Header.Get(echo.HeaderContentType), f, fh.Size)
	if err != nil {
		return errors.Wrap(err, "uploading file")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (s *Server) addTimetableEntry(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data timetable.NewEntry
	if err = bind(ctx, &data, "NewEntry"); err != nil {
		return err
	}
	entry, err := sess.AddTimetableEntry(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding timetable entry")
	}
	return ctx.JSON(http.StatusCreated, entry)
}

func (s *Server) removeTimetableEntry(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if err = sess.RemoveTimetableEntry(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "removing timetable entry")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) replaceTimetable(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data []timetable.Entry
	if err = bind(ctx, &data, "[]Entry"); err != nil {
		return err
	}
	if data == nil {
		data = []timetable.Entry{}
	}
	if err = sess.ReplaceTimetable(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "replacing timetable")
	}
	return ctx.JSON(http.StatusOK, sess.Store().Timetable())
}

func (s *Server) changeRole(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data RoleRequest
	if err = bind(ctx, &data, "RoleRequest"); err != nil {
		return err
	}
	role := identity.Role(strings.ToUpper(core.CleanString(data.Role)))
	if err = sess.ChangeRole(ctx.Request().Context(), ctx.Param("id"), role); err != nil {
		return errors.Wrap(err, "changing role")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) removeIdentity(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if err = sess.RemoveIdentity(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "removing identity")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) updateSubject(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data session.SubjectPatch
	if err = bind(ctx, &data, "SubjectPatch"); err != nil {
		return err
	}
	subj, err := sess.UpdateSubject(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, subj)
}

// exportState downloads the state snapshot as a dated JSON file.
func (s *Server) exportState(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	data, err := sess.Store().Export()
	if err != nil {
		return errors.Wrap(err, "exporting state")
	}
	name := state.SnapshotFilename(snapshotPrefix(s.conf.Prefs.StorageKey), nowFunc())
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}

// importState applies a raw JSON edit of the state. Invalid input leaves the state untouched.
func (s *Server) importState(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	data, err := readBody(ctx, maxImportSize)
	if err != nil {
		return err
	}
	if err = sess.Import(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "importing state")
	}
	return ctx.JSON(http.StatusOK, sess.Store().Snapshot())
}

// snapshotPrefix turns the storage key "1bacsm2_state" into "1bacsm2".
func snapshotPrefix(storageKey string) string {
	if p := strings.TrimSuffix(storageKey, "_state"); p != "" {
		return p
	}
	return "classhub"
}
