package timeline

// Window is the time span between two consecutive hot spots.
type Window struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Contains reports whether t lies in [Start, End] widened by eps.
func (w Window) Contains(t, eps float64) bool {
	return t > w.Start-eps && t < w.End+eps
}

func (w Window) Length() float64 {
	return w.End - w.Start
}

// Windows splits the timeline at its hot spots.
func (tl *Timeline) Windows() []Window {
	spots := tl.HotSpots()
	if len(spots) < 2 {
		return []Window{}
	}
	windows := make([]Window, 0, len(spots)-1)
	for i := 1; i < len(spots); i++ {
		windows = append(windows, Window{Start: spots[i-1], End: spots[i]})
	}
	return windows
}

// WindowAt returns the index of the first window containing t, or -1.
func (tl *Timeline) WindowAt(t float64) int {
	for i, w := range tl.Windows() {
		if w.Contains(t, tl.eps) {
			return i
		}
	}
	return -1
}
