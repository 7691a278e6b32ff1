package attrsync

import "sync"

// PreviewSentinel is displayed when a previewed reading does not exist
const PreviewSentinel = "--"

// PreviewState is the live preview shown next to a reading field
type PreviewState struct {
	mu            sync.RWMutex
	displayedText string
	sourceID      string
}

// Text returns the displayed preview text
func (p *PreviewState) Text() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.displayedText
}

// SourceID returns the update identifier ("<host>-<device>.<reading>") the
// preview is bound to, or "" if it is not bound.
func (p *PreviewState) SourceID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sourceID
}

// Bind shows text and attaches the preview to sourceID
func (p *PreviewState) Bind(text, sourceID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.displayedText = text
	p.sourceID = sourceID
}

// Update replaces the displayed text if id matches the bound source.
// It reports whether the preview changed.
func (p *PreviewState) Update(id, text string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sourceID == "" || p.sourceID != id {
		return false
	}
	p.displayedText = text
	return true
}

// DependentField is a field whose visibility follows another field's preview
type DependentField struct {
	Name string

	mu      sync.RWMutex
	visible bool
}

// Visible reports whether the dependent field is shown
func (d *DependentField) Visible() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.visible
}

// SetVisible shows or hides the dependent field
func (d *DependentField) SetVisible(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.visible = v
}

// FieldBinding ties one editable attribute field to an attribute of a FHEM device.
type FieldBinding struct {
	FieldName        string
	DeviceName       string
	PlaceholderValue string

	// Preview is set for reading fields only
	Preview *PreviewState

	// Dependent is set for the battery reading field only
	Dependent *DependentField

	// commitMu serializes commits of this binding
	commitMu sync.Mutex

	mu             sync.Mutex
	previousValue  string
	displayedValue string
}

// NewFieldBinding creates a binding for field on device. current is the
// attribute's value as loaded from FHEM ("" if unset) and placeholder the
// default shown when the field is empty.
func NewFieldBinding(device, field, current, placeholder string) *FieldBinding {
	b := &FieldBinding{
		FieldName:        field,
		DeviceName:       device,
		PlaceholderValue: placeholder,
		previousValue:    current,
		displayedValue:   current,
	}
	if IsReadingField(field) {
		b.Preview = &PreviewState{}
	}
	if field == FieldReadingBattery {
		b.Dependent = &DependentField{Name: FieldBatteryLowPercent}
	}
	return b
}

// Rule returns the validation rule for the bound field
func (b *FieldBinding) Rule() *Rule {
	return RuleFor(b.FieldName)
}

// PreviousValue is the value FHEM is believed to hold for the attribute
func (b *FieldBinding) PreviousValue() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.previousValue
}

// DisplayedValue is the current content of the field
func (b *FieldBinding) DisplayedValue() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.displayedValue
}

// PreviewReading returns the reading name the preview should show for value
func (b *FieldBinding) PreviewReading(value string) string {
	if value != "" {
		return value
	}
	return b.PlaceholderValue
}

// SetDisplayedValue replaces the field content without committing it
func (b *FieldBinding) SetDisplayedValue(value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.displayedValue = value
}

func (b *FieldBinding) setPreviousValue(value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.previousValue = value
}
