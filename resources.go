package pdf

// Resources represents a PDF resource dictionary, which supplies the named
// fonts, colour spaces, XObjects and other resources that operators in a
// page or form XObject's content stream refer to by name.  Resource
// dictionaries can be inherited from an ancestor in the page tree, but this
// library resolves that inheritance when it builds a page's resource view
// (see the pagetree package) rather than here.
//
// This struct can be used with [DecodeDict].
//
// Resource dictionaries are documented in section 7.8.3 of PDF
// 32000-1:2008.
type Resources struct {
	// ExtGState (optional) maps names to graphics state parameter
	// dictionaries, as used by the gs operator.
	ExtGState Dict `pdf:"optional"`

	// ColorSpace (optional) maps names to colour space definitions.
	ColorSpace Dict `pdf:"optional"`

	// Pattern (optional) maps names to pattern objects.
	Pattern Dict `pdf:"optional"`

	// Shading (optional) maps names to shading dictionaries.
	Shading Dict `pdf:"optional"`

	// XObject (optional) maps names to external objects (images and form
	// XObjects).
	XObject Dict `pdf:"optional"`

	// Font (optional) maps names to font dictionaries, as used by the Tf
	// operator.
	Font Dict `pdf:"optional"`

	// ProcSet (optional, deprecated since PDF 1.4) lists the procedure sets
	// used by the content stream.
	ProcSet Object `pdf:"optional"`

	// Properties (optional) maps names to property list dictionaries, as
	// used by marked-content operators such as BDC.
	Properties Dict `pdf:"optional"`
}
