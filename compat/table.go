/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package compat

// defaultTable holds first-support versions for the features the
// transform passes consult. Sourced from caniuse data; a browser absent
// from a row never shipped the feature unprefixed.
var defaultTable = FeatureTable{
	HexAlpha: {
		Chrome: V(62, 0, 0), Firefox: V(49, 0, 0), Safari: V(10, 0, 0),
		Edge: V(79, 0, 0), Opera: V(49, 0, 0), IOSSaf: V(9, 3, 0),
		Android: V(62, 0, 0), Samsung: V(8, 2, 0),
	},
	ModernColorSyntax: {
		Chrome: V(65, 0, 0), Firefox: V(52, 0, 0), Safari: V(12, 1, 0),
		Edge: V(79, 0, 0), Opera: V(52, 0, 0), IOSSaf: V(12, 2, 0),
		Android: V(65, 0, 0), Samsung: V(9, 2, 0),
	},
	LabColors: {
		Chrome: V(111, 0, 0), Firefox: V(113, 0, 0), Safari: V(15, 0, 0),
		Edge: V(111, 0, 0), Opera: V(97, 0, 0), IOSSaf: V(15, 0, 0),
		Android: V(111, 0, 0), Samsung: V(22, 0, 0),
	},
	OKLabColors: {
		Chrome: V(111, 0, 0), Firefox: V(113, 0, 0), Safari: V(15, 4, 0),
		Edge: V(111, 0, 0), Opera: V(97, 0, 0), IOSSaf: V(15, 4, 0),
		Android: V(111, 0, 0), Samsung: V(22, 0, 0),
	},
	HWBColors: {
		Chrome: V(101, 0, 0), Firefox: V(96, 0, 0), Safari: V(15, 0, 0),
		Edge: V(101, 0, 0), Opera: V(87, 0, 0), IOSSaf: V(15, 0, 0),
		Android: V(101, 0, 0), Samsung: V(19, 0, 0),
	},
	MediaRangeSyntax: {
		Chrome: V(104, 0, 0), Firefox: V(102, 0, 0), Safari: V(16, 4, 0),
		Edge: V(104, 0, 0), Opera: V(90, 0, 0), IOSSaf: V(16, 4, 0),
		Android: V(104, 0, 0), Samsung: V(20, 0, 0),
	},
	Nesting: {
		Chrome: V(120, 0, 0), Firefox: V(117, 0, 0), Safari: V(17, 2, 0),
		Edge: V(120, 0, 0), Opera: V(106, 0, 0), IOSSaf: V(17, 2, 0),
		Android: V(120, 0, 0), Samsung: V(25, 0, 0),
	},
	InsetProperty: {
		Chrome: V(87, 0, 0), Firefox: V(66, 0, 0), Safari: V(14, 1, 0),
		Edge: V(87, 0, 0), Opera: V(73, 0, 0), IOSSaf: V(14, 5, 0),
		Android: V(87, 0, 0), Samsung: V(14, 0, 0),
	},
	UserSelect: {
		Chrome: V(54, 0, 0), Firefox: V(69, 0, 0), Edge: V(79, 0, 0),
		Opera: V(41, 0, 0), Android: V(54, 0, 0), Samsung: V(6, 2, 0),
		// Safari still requires -webkit-user-select
	},
	Appearance: {
		Chrome: V(84, 0, 0), Firefox: V(80, 0, 0), Safari: V(15, 4, 0),
		Edge: V(84, 0, 0), Opera: V(73, 0, 0), IOSSaf: V(15, 4, 0),
		Android: V(84, 0, 0), Samsung: V(14, 0, 0),
	},
	BackdropFilter: {
		Chrome: V(76, 0, 0), Firefox: V(103, 0, 0), Safari: V(18, 0, 0),
		Edge: V(79, 0, 0), Opera: V(63, 0, 0), IOSSaf: V(18, 0, 0),
		Android: V(76, 0, 0), Samsung: V(12, 0, 0),
	},
	MaskProperty: {
		Chrome: V(120, 0, 0), Firefox: V(53, 0, 0), Safari: V(15, 4, 0),
		Edge: V(120, 0, 0), Opera: V(106, 0, 0), IOSSaf: V(15, 4, 0),
		Android: V(120, 0, 0), Samsung: V(25, 0, 0),
	},
	TextSizeAdjust: {
		Chrome: V(54, 0, 0), Edge: V(79, 0, 0), Opera: V(41, 0, 0),
		Android: V(54, 0, 0), Samsung: V(6, 2, 0),
	},
}
