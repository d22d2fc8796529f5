// Package detect inspects JavaScript sources.
//
// Two questions are answered here:
//
//   - [Module]: does a file already declare itself as an AMD module (a call
//     to define), and if so, does its dependency list use relative ids such
//     as "./util" that stop resolving once the file is moved?
//   - [Globals]: which global variable names does a file appear to export?
//
// Sources are parsed with otto's ES5 parser. Files otto cannot parse
// (typically ES2015+ syntax) fall back to a lexical scan over the source
// with comments removed, which recognises the same patterns less precisely.
//
// Read errors are always returned to the caller; they are never reported as
// "not a module".
package detect
