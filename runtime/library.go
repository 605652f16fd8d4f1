package runtime

var preludeForms = []string{
	`
(define-macro (and . args)
  (if (nullp args)
      #t
      (if (nullp (rest args))
          (first args)
          (list 'if (first args)
                (cons 'and (rest args))
                #f))))
`,
	`
(define-macro (or . args)
  (if (nullp args)
      #f
      (let ((rst (rest args)))
        (if (nullp rst)
            (first args)
            (let ((sym (gensym)))
              (list 'let (list (list sym (first args)))
                    (list 'if sym sym (cons 'or rst))))))))
`,
	`
(define (map proc lst)
  (if (nullp lst)
      '()
      (cons (proc (first lst)) (map proc (rest lst)))))
`,
	`
(define (filter pred lst)
  (cond ((nullp lst) '())
        ((pred (first lst)) (cons (first lst) (filter pred (rest lst))))
        (else (filter pred (rest lst)))))
`,
	`
(define (reduce proc init lst)
  (if (nullp lst)
      init
      (reduce proc (proc init (first lst)) (rest lst))))
`,
}
