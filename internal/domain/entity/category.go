package entity

// Category identifica un grupo fijo de lotes (ej. "Seda", "Filtros", "Tabacos").
// El conjunto se define por configuración al iniciar y no cambia en ejecución.
type Category string
