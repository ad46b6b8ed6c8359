// Package mmcif reads the coordinates and a little metadata from a file
// in mmcif/cif format.
// Reading mmcif files is interesting because they are so big,
// but we do not want much information from them.
// We could tokenise everything, but we do not. If one looks at the format
// there are some features that make it simpler.
// 1. The first character on the line is decisive. If it is a data item
// it has to be a "_". A loop starts with loop_
// 2. The pdb promises that they will restrict themselves to a certain
// style. In the ATOM records, they always use the same 21 columns and in
// the same order.
//
// Overall structure
// There are two independent passes over the text.
//  - The atom_site pass finds the loop whose headers start with
//    _atom_site. and collects the ATOM / HETATM lines that follow. It stops at
//    the first line that is neither a header nor an atom (nor blank nor a
//    comment). Every line is then turned into an AtomSiteRecord and projected
//    down to a Coordinate.
//  - The metadata pass looks for the title, the common name and the
//    entity description. It never fails. If something is not there, it
//    is just not there.
//
// If one atom line is broken (wrong number of columns, a coordinate that is
// not a number), the whole decode fails. We would rather have no coordinates
// than most of them. Someone else may prefer to skip and warn, but then the
// caller would never know that an atom is missing.
//
// There is also a coarse splitter that cuts a file at lines consisting only
// of "#". This is used when reading local files, where we trust the layout
// and can go straight to the section with the atoms.
//
// Notes about the mmcif format...
// A question mark, ?, means a missing value.
// A dot, ., means not appropriate or deliberately left out.
// Text fields can be quoted with ' or " or run over several lines when they
// start and end with a ";" in the first column.
package mmcif
