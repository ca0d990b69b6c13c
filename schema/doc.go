/*
Package schema offers the frame validation seam of the EPP engine.

The dispatcher runs a Validator over every parsed frame before any
command processing; a validation failure is reported to the client as a
2001 result with the schema error message.  The package ships a
structural validator covering the EPP base document shape.  Deployments
holding the full XSD set can supply their own Validator; a nil
Validator accepts every frame.
*/
package schema
