package runtime

var preludeForms = []string{
	`(def! not (fn* (a) (if a false true)))`,
	`
(def! load-file
  (fn* (f)
    (eval (read-string (str "(do " (slurp f) "\nnil)")))))
`,
	`
(defmacro! cond
  (fn* (& xs)
    (if (> (count xs) 0)
        (list 'if (first xs)
              (if (> (count xs) 1)
                  (nth xs 1)
                  (throw "odd number of forms to cond"))
              (cons 'cond (rest (rest xs)))))))
`,
	`
(defmacro! and
  (fn* (& xs)
    (if (empty? xs)
        true
        (if (= 1 (count xs))
            (first xs)
            (list 'if (first xs)
                  (cons 'and (rest xs))
                  false)))))
`,
	`
(defmacro! or
  (fn* (& xs)
    (if (empty? xs)
        nil
        (if (= 1 (count xs))
            (first xs)
            (let* (sym (gensym))
              (list 'let* (list sym (first xs))
                    (list 'if sym sym (cons 'or (rest xs)))))))))
`,
}
