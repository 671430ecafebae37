/*
Package domain contains the core models of the Food Advisor quiz engine.

It defines the static per-brand datasets (navigation graphs and product catalogs)
and the runtime session State. The package is pure: no I/O, no persistence and no
logging, so every adapter can share it.

# Key Entities

  - Brand: the closed set of product lines, each with its own datasets.
  - NavigationGraph: the ordered pages of one brand's questionnaire.
  - Page / Button: a question screen and its answers (or, on result pages, product codes).
  - TextRef: a literal string or a translation key, decided once at load time.
  - Catalog / Product: the brand's products indexed by code.
  - State: where a single session is (brand, current page, visit history).
  - View: the snapshot handed to hosts after every resolve.
*/
package domain
