// Package dialogs wraps the native dialogs used by the viewer. Every call
// blocks until the user answers, so callers run them off the render loop.
package dialogs

import (
	"errors"
	"image/color"
	"path/filepath"
	"strings"

	apperrors "galaxy-gen/internal/errors"

	"github.com/ncruces/zenity"
)

// ErrCanceled reports that the user dismissed a dialog.
var ErrCanceled = errors.New("dialog canceled")

// PickColor asks for a color, starting from initial.
func PickColor(title string, initial color.Color) (color.Color, error) {
	opts := []zenity.Option{zenity.Title(title)}
	if initial != nil {
		opts = append(opts, zenity.Color(initial))
	}
	c, err := zenity.SelectColor(opts...)
	if err != nil {
		return nil, translate("select color", err)
	}
	return c, nil
}

// SaveFile asks for an export destination. extensions are offered as filters
// in order, e.g. ".json", ".ply".
func SaveFile(title, defaultName string, extensions []string) (string, error) {
	filters := make(zenity.FileFilters, 0, len(extensions))
	for _, ext := range extensions {
		filters = append(filters, zenity.FileFilter{
			Name:     strings.TrimPrefix(ext, "."),
			Patterns: []string{"*" + ext},
		})
	}
	path, err := zenity.SelectFileSave(
		zenity.Title(title),
		zenity.Filename(defaultName),
		zenity.ConfirmOverwrite(),
		filters,
	)
	if err != nil {
		return "", translate("select save file", err)
	}
	if filepath.Ext(path) == "" && len(extensions) > 0 {
		path += extensions[0]
	}
	return path, nil
}

// Notify shows a short informational message.
func Notify(title, message string) error {
	if err := zenity.Info(message, zenity.Title(title), zenity.InfoIcon); err != nil {
		return translate("show info", err)
	}
	return nil
}

// NotifyError reports err to the user. Nil errors and canceled dialogs are
// not worth a popup and return nil without showing anything.
func NotifyError(title string, err error) error {
	if err == nil || errors.Is(err, ErrCanceled) {
		return nil
	}
	return Notify(title, err.Error())
}

func translate(op string, err error) error {
	if errors.Is(err, zenity.ErrCanceled) {
		return ErrCanceled
	}
	return apperrors.WrapExternal(op, err)
}
