// Package mainwindow provides the viewer windows and the session that owns them.
package mainwindow

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"sync"

	"sweepview/internal/config"
	"sweepview/internal/sweep"
	"sweepview/internal/view"
	"sweepview/pkg/colorutil"
	"sweepview/ui/canvas"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/mat"
)

// Leg selects which half of a back-and-forth scan is displayed.
type Leg int

const (
	LegForward Leg = iota
	LegBackward
)

const (
	legForwardLabel  = "Forward"
	legBackwardLabel = "Backward"
)

// ErrNoBackwardLeg is returned when selecting the backward leg of a monotonic scan.
var ErrNoBackwardLeg = errors.New("scan has no backward leg")

// Viewer is one heatmap window with its cross-section profiles and color
// range slider. The viewer owns its widgets and callbacks; keep the handle
// for as long as the window is open.
type Viewer struct {
	mu sync.Mutex // Serializes UI events against data reloads

	window fyne.Window
	path   string
	cfg    config.ViewConfig

	result *sweep.Result
	leg    Leg
	state  *view.State

	heatmap    *canvas.Heatmap
	rowProfile *canvas.Profile
	colProfile *canvas.Profile
	slider     *canvas.RangeSlider
	legSelect  *widget.RadioGroup
	axes       *widget.Label
	status     *widget.Label

	onOpen func(path string) // Opens another file in the same session
}

// NewViewer creates a viewer window for res. The window is not shown.
func NewViewer(fyneApp fyne.App, path string, res *sweep.Result, cfg config.ViewConfig) (*Viewer, error) {
	cmap, err := colorutil.NewColormap(cfg.Palette)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		window: fyneApp.NewWindow(filepath.Base(path) + " - sweepview"),
		path:   path,
		cfg:    cfg,
		result: res,
		state:  view.NewState(res.Grid),
	}

	lo, hi := v.state.ColorRange()
	cmap.SetRange(lo, hi)
	rows, cols := v.state.Dims()

	v.heatmap = canvas.NewHeatmap(res.Grid, cmap)
	v.rowProfile = canvas.NewProfile(canvas.Horizontal, cols, colorutil.C1, cfg.ProfileSize)
	v.colProfile = canvas.NewProfile(canvas.Vertical, rows, colorutil.C0, cfg.ProfileSize)
	v.slider = canvas.NewRangeSlider(lo, hi, cmap, cfg.SliderHeight)
	v.axes = widget.NewLabel("")
	v.status = widget.NewLabel("")
	v.legSelect = widget.NewRadioGroup([]string{legForwardLabel, legBackwardLabel}, v.onLegSelected)
	v.legSelect.Horizontal = true
	v.legSelect.Required = true
	v.legSelect.SetSelected(legForwardLabel)

	v.heatmap.OnPointerMove(func(x, y float64) {
		v.Dispatch(view.PointerMoved{X: x, Y: y})
	})
	v.heatmap.OnPointerLeave(func() {
		v.Dispatch(view.PointerLeft{})
	})
	v.slider.OnChanged = func(low, high float64) {
		v.Dispatch(view.RangeChanged{Min: low, Max: high})
	}

	v.setupUI()
	v.setupMenus()
	v.updateAxes()
	return v, nil
}

// setupUI lays out the panels: row profile and slider above the heatmap,
// column profile to its right.
func (v *Viewer) setupUI() {
	// Keeps the row profile and slider as wide as the heatmap.
	corner := fynecanvas.NewRectangle(color.Transparent)
	corner.SetMinSize(fyne.NewSize(v.cfg.ProfileSize, 1))

	sliderRow := container.NewBorder(nil, nil, widget.NewLabel("Z-value"), nil, v.slider)
	top := container.NewBorder(nil, nil, nil, corner,
		container.NewVBox(v.rowProfile, sliderRow),
	)

	bottom := container.NewVBox(
		v.axes,
		container.NewBorder(nil, nil, v.legSelect, nil, v.status),
	)

	content := container.NewBorder(
		top,          // top
		bottom,       // bottom
		nil,          // left
		v.colProfile, // right
		v.heatmap,    // center
	)

	v.window.SetContent(content)
	v.window.Resize(fyne.NewSize(v.cfg.Width, v.cfg.Height))
}

// setupMenus creates the window menus.
func (v *Viewer) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open...", v.onOpenFile),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Close", func() { v.window.Close() }),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Reset Color Range", v.ResetColorRange),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Forward Leg", func() { v.selectLeg(LegForward) }),
		fyne.NewMenuItem("Backward Leg", func() { v.selectLeg(LegBackward) }),
	)
	v.window.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu))
}

// Dispatch feeds ev to the view state and applies the resulting frame.
func (v *Viewer) Dispatch(ev view.Event) view.Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	f := v.state.Dispatch(ev)
	if f.Redraw {
		v.applyLocked(f)
	}
	return f
}

// applyLocked pushes a frame to the widgets.
func (v *Viewer) applyLocked(f view.Frame) {
	v.heatmap.SetMarkers(f.MarkerX, f.MarkerY, f.Hovering)
	v.rowProfile.SetData(f.RowProfile)
	v.colProfile.SetData(f.ColProfile)

	if lo, hi := v.heatmap.ColorRange(); lo != f.ColorMin || hi != f.ColorMax {
		v.heatmap.SetColorRange(f.ColorMin, f.ColorMax)
	}
	v.slider.SetValues(f.ColorMin, f.ColorMax)

	if !f.Hovering {
		v.status.SetText("")
		return
	}
	c := f.Cell
	v.status.SetText(fmt.Sprintf("s1 = %g   s2 = %g   z = %g",
		v.result.X[c.Col], v.result.Y[c.Row], v.state.Value(c)))
}

// ResetColorRange returns the color bounds to the data range.
func (v *Viewer) ResetColorRange() {
	v.mu.Lock()
	lo, hi := v.state.DataRange()
	v.mu.Unlock()
	v.Dispatch(view.RangeChanged{Min: lo, Max: hi})
}

// SetLeg switches between the forward and backward grids of a
// back-and-forth scan.
func (v *Viewer) SetLeg(leg Leg) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if leg == LegBackward && v.result.Backward == nil {
		return ErrNoBackwardLeg
	}
	if leg == v.leg {
		return nil
	}
	v.leg = leg
	v.swapGridLocked()
	return nil
}

// Leg returns the displayed leg.
func (v *Viewer) Leg() Leg {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.leg
}

func (v *Viewer) onLegSelected(label string) {
	leg := LegForward
	if label == legBackwardLabel {
		leg = LegBackward
	}
	if err := v.SetLeg(leg); err != nil {
		dialog.ShowError(err, v.window)
	}
}

// selectLeg switches legs from the menu and keeps the radio group in step.
func (v *Viewer) selectLeg(leg Leg) {
	if err := v.SetLeg(leg); err != nil {
		dialog.ShowError(err, v.window)
		return
	}
	label := legForwardLabel
	if leg == LegBackward {
		label = legBackwardLabel
	}
	v.legSelect.SetSelected(label)
}

// Replace swaps in freshly reconstructed data, keeping the cursor and any
// user-chosen color range.
func (v *Viewer) Replace(res *sweep.Result) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result = res
	if res.Backward == nil {
		v.leg = LegForward
	}
	v.swapGridLocked()
	v.updateAxes()
}

func (v *Viewer) swapGridLocked() {
	grid := v.gridLocked()
	f := v.state.Replace(grid)

	rows, cols := v.state.Dims()
	v.rowProfile.SetExtent(cols)
	v.colProfile.SetExtent(rows)
	lo, hi := v.state.DataRange()
	v.slider.SetBounds(lo, hi)
	v.heatmap.SetGrid(grid)
	v.applyLocked(f)
}

func (v *Viewer) gridLocked() *mat.Dense {
	if v.leg == LegBackward && v.result.Backward != nil {
		return v.result.Backward
	}
	return v.result.Grid
}

func (v *Viewer) updateAxes() {
	res := v.result
	v.axes.SetText(fmt.Sprintf("x: s1 [%g .. %g]   y: s2 [%g .. %g]   %s, %d x %d",
		res.X[0], res.X[len(res.X)-1], res.Y[0], res.Y[len(res.Y)-1],
		res.Mode, len(res.Y), len(res.X)))
	if res.Backward != nil {
		v.legSelect.Show()
	} else {
		v.legSelect.Hide()
	}
}

func (v *Viewer) onOpenFile() {
	if v.onOpen == nil {
		return
	}
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		v.onOpen(reader.URI().Path())
	}, v.window)
	if dir, err := storage.ListerForURI(storage.NewFileURI(filepath.Dir(v.path))); err == nil {
		fd.SetLocation(dir)
	}
	fd.Show()
}

// Window returns the viewer's window.
func (v *Viewer) Window() fyne.Window {
	return v.window
}

// Path returns the data file shown.
func (v *Viewer) Path() string {
	return v.path
}

// Result returns the displayed reconstruction.
func (v *Viewer) Result() *sweep.Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result
}

// Frame returns the current view state.
func (v *Viewer) Frame() view.Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Frame()
}
